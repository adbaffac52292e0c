package round

import (
	"fmt"
	"time"
)

// ScheduleKind distingue rodadas com fechamento diário ou em dias fixos do mês.
type ScheduleKind int

const (
	KindDaily ScheduleKind = iota
	KindMonthly
)

// TimeOfDay representa um horário hh:mm sem data.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay converte "hh:mm" em TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// before compara dois horários dentro do mesmo dia.
func (t TimeOfDay) before(o TimeOfDay) bool {
	return t.Hour < o.Hour || (t.Hour == o.Hour && t.Minute < o.Minute)
}

// on ancora o horário na data de ref (mesmo fuso).
func (t TimeOfDay) on(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

// Schedule descreve a janela de apostas de um produto de loteria.
type Schedule struct {
	OpenTime     TimeOfDay
	CloseTime    TimeOfDay
	OpenWeekdays map[time.Weekday]bool
	Kind         ScheduleKind
	// CloseDaysOfMonth: dias de fechamento em ordem crescente (Kind = Monthly)
	CloseDaysOfMonth []int
}

// OpenOn informa se a rodada abre no dia da semana dado. Mapa vazio = todos os dias.
func (s Schedule) OpenOn(d time.Weekday) bool {
	if len(s.OpenWeekdays) == 0 {
		return true
	}
	return s.OpenWeekdays[d]
}

// OpenAt informa se a rodada aceita apostas no instante dado: o dia da
// semana precisa estar aberto e, em agendas diárias, a hora precisa cair
// dentro da janela [OpenTime, CloseTime). Janelas overnight pertencem ao dia
// em que abriram: de madrugada vale o dia da semana anterior.
// Agendas mensais ficam abertas entre os dias de fechamento; só o dia da
// semana é checado.
func OpenAt(s Schedule, now time.Time) bool {
	cur := TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}

	if s.Kind == KindMonthly {
		return s.OpenOn(now.Weekday())
	}

	if !s.CloseTime.before(s.OpenTime) {
		if cur.before(s.OpenTime) || !cur.before(s.CloseTime) {
			return false
		}
		return s.OpenOn(now.Weekday())
	}

	// janela overnight
	switch {
	case !cur.before(s.OpenTime): // trecho noturno do dia de abertura
		return s.OpenOn(now.Weekday())
	case cur.before(s.CloseTime): // madrugada do dia seguinte
		return s.OpenOn(now.AddDate(0, 0, -1).Weekday())
	default:
		return false
	}
}

// CloseInstant calcula o próximo instante de fechamento relativo a now.
// Nunca retorna um instante passado.
//
// Diário: candidato = hoje no CloseTime; janelas que cruzam a meia-noite
// (CloseTime < OpenTime) e candidatos já vencidos rolam para o dia seguinte.
// Mensal: varre CloseDaysOfMonth em ordem crescente; aceita o dia de hoje se
// o horário ainda não passou; esgotada a lista, volta ao primeiro dia no mês
// seguinte (virando o ano em dezembro). Dias inexistentes no mês alvo (ex.:
// 31 em fevereiro) são grampeados no último dia do mês.
func CloseInstant(s Schedule, now time.Time) time.Time {
	switch s.Kind {
	case KindMonthly:
		return monthlyClose(s, now)
	default:
		return dailyClose(s, now)
	}
}

func dailyClose(s Schedule, now time.Time) time.Time {
	candidate := s.CloseTime.on(now)
	// cobre tanto a janela overnight (CloseTime < OpenTime e hora atual já
	// passou do fechamento) quanto o caso simples de candidato vencido
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

func monthlyClose(s Schedule, now time.Time) time.Time {
	today := now.Day()
	for _, d := range s.CloseDaysOfMonth {
		day := clampDay(now.Year(), now.Month(), d)
		if day < today {
			continue
		}
		candidate := time.Date(now.Year(), now.Month(), day, s.CloseTime.Hour, s.CloseTime.Minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}

	// lista esgotada no mês corrente: primeiro dia da lista no mês seguinte
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	day := clampDay(first.Year(), first.Month(), s.CloseDaysOfMonth[0])
	return time.Date(first.Year(), first.Month(), day, s.CloseTime.Hour, s.CloseTime.Minute, 0, 0, now.Location())
}

// clampDay grampeia o dia no último dia real do mês (31 em fev -> 28/29).
func clampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}
