package round

import (
	"testing"
	"time"
)

func mustTOD(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%s): %v", s, err)
	}
	return tod
}

func TestDailyCloseBeforeClose(t *testing.T) {
	s := Schedule{
		OpenTime:  mustTOD(t, "00:00"),
		CloseTime: mustTOD(t, "15:30"),
		Kind:      KindDaily,
	}
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestDailyClosePastCloseRollsForward(t *testing.T) {
	s := Schedule{
		OpenTime:  mustTOD(t, "00:00"),
		CloseTime: mustTOD(t, "15:30"),
		Kind:      KindDaily,
	}
	now := time.Date(2025, 3, 10, 15, 31, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2025, 3, 11, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestDailyOvernightWindow(t *testing.T) {
	// janela 20:00 -> 02:00 do dia seguinte; à 01:00 o fechamento ainda é hoje às 02:00
	s := Schedule{
		OpenTime:  mustTOD(t, "20:00"),
		CloseTime: mustTOD(t, "02:00"),
		Kind:      KindDaily,
	}
	now := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}

	// às 03:00 já passou: rola para amanhã às 02:00
	now = time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	got = CloseInstant(s, now)
	want = time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant after close = %v, want %v", got, want)
	}
}

func TestMonthlyCloseSameDayNotYetPassed(t *testing.T) {
	s := Schedule{
		CloseTime:        mustTOD(t, "15:30"),
		Kind:             KindMonthly,
		CloseDaysOfMonth: []int{1, 16},
	}
	now := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2025, 3, 16, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestMonthlyCloseNextDayInMonth(t *testing.T) {
	s := Schedule{
		CloseTime:        mustTOD(t, "15:30"),
		Kind:             KindMonthly,
		CloseDaysOfMonth: []int{1, 16},
	}
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2025, 3, 16, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestMonthlyCloseWrapsToNextMonth(t *testing.T) {
	s := Schedule{
		CloseTime:        mustTOD(t, "15:30"),
		Kind:             KindMonthly,
		CloseDaysOfMonth: []int{1, 16},
	}
	now := time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2025, 4, 1, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestMonthlyCloseWrapsYear(t *testing.T) {
	s := Schedule{
		CloseTime:        mustTOD(t, "12:00"),
		Kind:             KindMonthly,
		CloseDaysOfMonth: []int{10},
	}
	now := time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestMonthlyCloseClampsShortMonth(t *testing.T) {
	// dia 31 listado, mas fevereiro termina no 28: grampeia no último dia
	s := Schedule{
		CloseTime:        mustTOD(t, "12:00"),
		Kind:             KindMonthly,
		CloseDaysOfMonth: []int{31},
	}
	now := time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC)

	got := CloseInstant(s, now)
	want := time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestOpenAtDailyWindow(t *testing.T) {
	s := Schedule{
		OpenTime:  mustTOD(t, "00:00"),
		CloseTime: mustTOD(t, "15:30"),
		Kind:      KindDaily,
	}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"dentro da janela", time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), true},
		{"um minuto antes do fechamento", time.Date(2025, 3, 10, 15, 29, 0, 0, time.UTC), true},
		{"no instante do fechamento", time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC), false},
		{"depois do fechamento", time.Date(2025, 3, 10, 15, 31, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := OpenAt(s, tc.now); got != tc.want {
			t.Errorf("%s: OpenAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOpenAtClosedPartStillHasFutureCloseInstant(t *testing.T) {
	// às 15:31 o próximo fechamento é amanhã, mas a janela de hoje já fechou:
	// o carregamento de sessão deve ser recusado em vez de armar o countdown
	s := Schedule{
		OpenTime:  mustTOD(t, "00:00"),
		CloseTime: mustTOD(t, "15:30"),
		Kind:      KindDaily,
	}
	now := time.Date(2025, 3, 10, 15, 31, 0, 0, time.UTC)

	if OpenAt(s, now) {
		t.Errorf("OpenAt = true after close time, want false")
	}
	want := time.Date(2025, 3, 11, 15, 30, 0, 0, time.UTC)
	if got := CloseInstant(s, now); !got.Equal(want) {
		t.Errorf("CloseInstant = %v, want %v", got, want)
	}
}

func TestOpenAtOvernightWindow(t *testing.T) {
	s := Schedule{
		OpenTime:  mustTOD(t, "20:00"),
		CloseTime: mustTOD(t, "02:00"),
		Kind:      KindDaily,
	}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"trecho noturno", time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC), true},
		{"madrugada antes do fechamento", time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), true},
		{"madrugada depois do fechamento", time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC), false},
		{"tarde fora da janela", time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := OpenAt(s, tc.now); got != tc.want {
			t.Errorf("%s: OpenAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOpenAtHonorsWeekdays(t *testing.T) {
	s := Schedule{
		OpenTime:     mustTOD(t, "09:00"),
		CloseTime:    mustTOD(t, "18:00"),
		OpenWeekdays: map[time.Weekday]bool{time.Monday: true},
		Kind:         KindDaily,
	}

	monday := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	if !OpenAt(s, monday) {
		t.Errorf("OpenAt(Monday 10:00) = false, want true")
	}
	tuesday := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	if OpenAt(s, tuesday) {
		t.Errorf("OpenAt(Tuesday 10:00) = true, want false")
	}
}

func TestOpenAtOvernightUsesOpeningWeekday(t *testing.T) {
	// janela de segunda 20:00 até terça 02:00: a madrugada de terça pertence
	// ao dia de abertura (segunda)
	s := Schedule{
		OpenTime:     mustTOD(t, "20:00"),
		CloseTime:    mustTOD(t, "02:00"),
		OpenWeekdays: map[time.Weekday]bool{time.Monday: true},
		Kind:         KindDaily,
	}

	tuesdayEarly := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC) // terça 01:00
	if !OpenAt(s, tuesdayEarly) {
		t.Errorf("OpenAt(Tuesday 01:00, opened Monday) = false, want true")
	}
	wednesdayEarly := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)
	if OpenAt(s, wednesdayEarly) {
		t.Errorf("OpenAt(Wednesday 01:00) = true, want false")
	}
}

func TestOpenAtMonthlyChecksWeekdayOnly(t *testing.T) {
	s := Schedule{
		OpenTime:         mustTOD(t, "09:00"),
		CloseTime:        mustTOD(t, "15:30"),
		Kind:             KindMonthly,
		CloseDaysOfMonth: []int{1, 16},
	}
	// mensal fica aberta entre os dias de fechamento, mesmo fora do horário diário
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	if !OpenAt(s, now) {
		t.Errorf("OpenAt(monthly, 20:00) = false, want true")
	}
}

func TestOpenOn(t *testing.T) {
	s := Schedule{OpenWeekdays: map[time.Weekday]bool{time.Monday: true}}
	if !s.OpenOn(time.Monday) {
		t.Errorf("OpenOn(Monday) = false, want true")
	}
	if s.OpenOn(time.Tuesday) {
		t.Errorf("OpenOn(Tuesday) = true, want false")
	}

	all := Schedule{}
	if !all.OpenOn(time.Sunday) {
		t.Errorf("empty OpenWeekdays should open every day")
	}
}
