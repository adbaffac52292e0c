package engine

import (
	"sort"
	"strings"
)

// Mode define o modo de expansão aplicado ao padrão digitado pelo operador.
type Mode int

const (
	// ModeIdentity retorna o padrão sem expansão (entrada direta de 2/3 dígitos)
	ModeIdentity Mode = iota
	// ModeDirectGate expande um único dígito para todos os números de 2 dígitos que o contêm
	ModeDirectGate
	// ModeWinTwo expande 2..8 dígitos para todas as permutações de tamanho 2
	ModeWinTwo
	// ModeWinThree expande 3..8 dígitos para todas as permutações de tamanho 3
	ModeWinThree
)

// Expand converte o padrão digitado em um conjunto de números de aposta.
// Função pura e total: entrada malformada (tamanho ou charset errado para o
// modo) retorna slice vazio — quem chama é responsável por sinalizar o erro
// ao operador. A saída é deduplicada e em ordem determinística.
func Expand(pattern string, mode Mode) []string {
	switch mode {
	case ModeIdentity:
		return []string{pattern}

	case ModeDirectGate:
		if len(pattern) != 1 || !allDigits(pattern) {
			return nil
		}
		var out []string
		for i := 0; i < 100; i++ {
			n := twoDigits(i)
			if strings.ContainsRune(n, rune(pattern[0])) {
				out = append(out, n)
			}
		}
		return out

	case ModeWinTwo:
		u := uniqueDigits(pattern)
		if len(pattern) < 2 || len(pattern) > 8 || u == nil || len(u) < 2 {
			return nil
		}
		var out []string
		for i := range u {
			for j := range u {
				if i == j {
					continue
				}
				out = append(out, string([]byte{u[i], u[j]}))
			}
		}
		return out

	case ModeWinThree:
		u := uniqueDigits(pattern)
		if len(pattern) < 3 || len(pattern) > 8 || u == nil || len(u) < 3 {
			return nil
		}
		var out []string
		for i := range u {
			for j := range u {
				if j == i {
					continue
				}
				for k := range u {
					if k == i || k == j {
						continue
					}
					out = append(out, string([]byte{u[i], u[j], u[k]}))
				}
			}
		}
		return out
	}

	return nil
}

// Permute retorna todas as permutações distintas dos dígitos de um número.
// Usado pela geração de "números de volta" (reversal) do composer:
// "12" -> {"12","21"}, "123" -> 6 permutações, "55" -> {"55"}.
func Permute(number string) []string {
	if number == "" || !allDigits(number) {
		return nil
	}
	seen := make(map[string]struct{})
	b := []byte(number)
	permute(b, 0, seen)

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func permute(b []byte, i int, seen map[string]struct{}) {
	if i == len(b) {
		seen[string(b)] = struct{}{}
		return
	}
	for j := i; j < len(b); j++ {
		b[i], b[j] = b[j], b[i]
		permute(b, i+1, seen)
		b[i], b[j] = b[j], b[i]
	}
}

// uniqueDigits remove dígitos repetidos preservando a ordem da primeira
// ocorrência. Retorna nil se algum caractere não for dígito.
func uniqueDigits(pattern string) []byte {
	if !allDigits(pattern) {
		return nil
	}
	var seen [10]bool
	var out []byte
	for i := 0; i < len(pattern); i++ {
		d := pattern[i] - '0'
		if !seen[d] {
			seen[d] = true
			out = append(out, pattern[i])
		}
	}
	return out
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
