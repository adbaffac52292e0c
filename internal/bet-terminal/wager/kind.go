package wager

import "fmt"

// Kind é o enum fechado de categorias de aposta. Todo mapeamento
// kind -> label / rate / ordem de exibição faz switch exaustivo sobre ele.
type Kind int

const (
	TwoUp Kind = iota
	TwoDown
	ThreeTop
	ThreeTod
	RunUp
	RunDown
)

// String retorna o código de wire do kind (usado em eventos e no banco).
func (k Kind) String() string {
	switch k {
	case TwoUp:
		return "TWO_UP"
	case TwoDown:
		return "TWO_DOWN"
	case ThreeTop:
		return "THREE_TOP"
	case ThreeTod:
		return "THREE_TOD"
	case RunUp:
		return "RUN_UP"
	case RunDown:
		return "RUN_DOWN"
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Label retorna o rótulo curto exibido ao operador.
func (k Kind) Label() string {
	switch k {
	case TwoUp:
		return "2 top"
	case TwoDown:
		return "2 bottom"
	case ThreeTop:
		return "3 top"
	case ThreeTod:
		return "3 tod"
	case RunUp:
		return "run up"
	case RunDown:
		return "run down"
	}
	return k.String()
}

// DisplayOrder define a ordem estável dos kinds nas linhas agrupadas.
func (k Kind) DisplayOrder() int {
	switch k {
	case ThreeTop:
		return 0
	case ThreeTod:
		return 1
	case TwoUp:
		return 2
	case TwoDown:
		return 3
	case RunUp:
		return 4
	case RunDown:
		return 5
	}
	return 6
}

// ParseKind converte o código de wire de volta para o enum.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "TWO_UP":
		return TwoUp, nil
	case "TWO_DOWN":
		return TwoDown, nil
	case "THREE_TOP":
		return ThreeTop, nil
	case "THREE_TOD":
		return ThreeTod, nil
	case "RUN_UP":
		return RunUp, nil
	case "RUN_DOWN":
		return RunDown, nil
	}
	return 0, fmt.Errorf("unknown bet kind %q", s)
}

// Tab é a aba ativa do terminal; determina os kinds aplicados no commit e o
// comprimento completo do número digitado.
type Tab int

const (
	TabTwoDigit Tab = iota
	TabThreeDigit
	TabRunning
)

func (t Tab) String() string {
	switch t {
	case TabTwoDigit:
		return "TWO_DIGIT"
	case TabThreeDigit:
		return "THREE_DIGIT"
	case TabRunning:
		return "RUNNING"
	}
	return fmt.Sprintf("TAB_%d", int(t))
}

// ParseTab converte o código de wire da aba.
func ParseTab(s string) (Tab, error) {
	switch s {
	case "TWO_DIGIT":
		return TabTwoDigit, nil
	case "THREE_DIGIT":
		return TabThreeDigit, nil
	case "RUNNING":
		return TabRunning, nil
	}
	return 0, fmt.Errorf("unknown tab %q", s)
}

// Sides retorna o kind do preço "top" e do preço "bottom" da aba.
func (t Tab) Sides() (top Kind, bottom Kind) {
	switch t {
	case TabThreeDigit:
		return ThreeTop, ThreeTod
	case TabRunning:
		return RunUp, RunDown
	default:
		return TwoUp, TwoDown
	}
}

// NumberLen é o comprimento de um número completo na aba (dispara a
// auto-expansão no modo identidade).
func (t Tab) NumberLen() int {
	switch t {
	case TabThreeDigit:
		return 3
	case TabRunning:
		return 1
	default:
		return 2
	}
}
