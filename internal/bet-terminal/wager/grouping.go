package wager

import (
	"fmt"
	"sort"
	"strings"
)

// KindAmount é o par (kind, valor) que identifica uma fatia de uma camada.
type KindAmount struct {
	Kind        Kind
	AmountCents int64
}

// Group é uma linha colapsada da revisão: vários números que compartilham a
// mesma assinatura de (kind, valor) dentro de um lote. LineIDs aponta para
// as linhas subjacentes, permitindo remover o grupo como unidade.
type Group struct {
	BatchID   string
	Signature string
	Pairs     []KindAmount
	Numbers   []string
	LineIDs   []string
}

// GroupLines colapsa as linhas do pedido em grupos de exibição.
//
// Particiona por lote, depois por número; dentro de um número, descasca
// camadas: cada camada leva uma linha de cada pilha (kind, valor) ainda não
// vazia. Camadas com assinatura idêntica entre números diferentes do mesmo
// lote fundem numa única linha de exibição — mas nunca duas camadas do mesmo
// número, preservando a multiplicidade exata (um número lançado duas vezes
// com o mesmo kind/valor gera dois grupos removíveis separadamente).
func GroupLines(lines []BetLine) []Group {
	var groups []Group

	for _, batch := range partitionByBatch(lines) {
		batchStart := len(groups)
		for _, num := range partitionByNumber(batch.lines) {
			for _, layer := range peelLayers(num.lines) {
				sig := signature(layer)
				merged := false
				for gi := batchStart; gi < len(groups); gi++ {
					g := &groups[gi]
					if g.Signature != sig || containsStr(g.Numbers, num.number) {
						continue
					}
					g.Numbers = append(g.Numbers, num.number)
					for _, l := range layer {
						g.LineIDs = append(g.LineIDs, l.LineID)
					}
					merged = true
					break
				}
				if merged {
					continue
				}
				g := Group{
					BatchID:   batch.id,
					Signature: sig,
					Numbers:   []string{num.number},
				}
				for _, l := range layer {
					g.Pairs = append(g.Pairs, KindAmount{Kind: l.Kind, AmountCents: l.AmountCents})
					g.LineIDs = append(g.LineIDs, l.LineID)
				}
				sortPairs(g.Pairs)
				groups = append(groups, g)
			}
		}
	}

	return groups
}

type batchPart struct {
	id    string
	lines []BetLine
}

func partitionByBatch(lines []BetLine) []batchPart {
	var parts []batchPart
	idx := make(map[string]int)
	for _, l := range lines {
		i, ok := idx[l.BatchID]
		if !ok {
			i = len(parts)
			idx[l.BatchID] = i
			parts = append(parts, batchPart{id: l.BatchID})
		}
		parts[i].lines = append(parts[i].lines, l)
	}
	return parts
}

type numberPart struct {
	number string
	lines  []BetLine
}

func partitionByNumber(lines []BetLine) []numberPart {
	var parts []numberPart
	idx := make(map[string]int)
	for _, l := range lines {
		i, ok := idx[l.Number]
		if !ok {
			i = len(parts)
			idx[l.Number] = i
			parts = append(parts, numberPart{number: l.Number})
		}
		parts[i].lines = append(parts[i].lines, l)
	}
	return parts
}

// peelLayers forma as camadas de um número: pilhas por (kind, valor), e a
// cada rodada sai uma linha de cada pilha não vazia. Duas linhas iguais no
// mesmo lote viram duas camadas, nunca uma contagem.
func peelLayers(lines []BetLine) [][]BetLine {
	piles := make(map[KindAmount][]BetLine)
	var keys []KindAmount
	for _, l := range lines {
		ka := KindAmount{Kind: l.Kind, AmountCents: l.AmountCents}
		if _, ok := piles[ka]; !ok {
			keys = append(keys, ka)
		}
		piles[ka] = append(piles[ka], l)
	}
	sortPairs(keys)

	var layers [][]BetLine
	remaining := len(lines)
	for remaining > 0 {
		var layer []BetLine
		for _, ka := range keys {
			pile := piles[ka]
			if len(pile) == 0 {
				continue
			}
			layer = append(layer, pile[0])
			piles[ka] = pile[1:]
			remaining--
		}
		layers = append(layers, layer)
	}
	return layers
}

// signature gera a chave ordenada de (kind, valor) de uma camada.
func signature(layer []BetLine) string {
	parts := make([]string, 0, len(layer))
	for _, l := range layer {
		parts = append(parts, fmt.Sprintf("%s:%d", l.Kind, l.AmountCents))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

func sortPairs(pairs []KindAmount) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Kind.DisplayOrder() != pairs[j].Kind.DisplayOrder() {
			return pairs[i].Kind.DisplayOrder() < pairs[j].Kind.DisplayOrder()
		}
		return pairs[i].AmountCents < pairs[j].AmountCents
	})
}

func containsStr(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
