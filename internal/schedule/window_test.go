package schedule

import (
	"errors"
	"sort"
	"testing"
)

func TestParseWindow(t *testing.T) {
	cases := []struct {
		in   string
		want TimeWindow
	}{
		{"09-10", Window9to10},
		{"9-10", Window9to10},
		{" 10-11 ", Window10to11},
		{"11-12", Window11to12},
	}
	for _, c := range cases {
		got, err := ParseWindow(c.in)
		if err != nil {
			t.Fatalf("ParseWindow(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseWindow(%q) = %s, want %s", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "12-13", "9:00", "morning"} {
		if _, err := ParseWindow(bad); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("ParseWindow(%q) err = %v, want ErrInvalidWindow", bad, err)
		}
	}
}

func TestWindowValid(t *testing.T) {
	for _, w := range AllWindows() {
		if !w.Valid() {
			t.Fatalf("%s должно быть валидным", w)
		}
	}
	if TimeWindow("13-14").Valid() {
		t.Fatal("13-14 не входит в набор окон")
	}
}

// Лексикографический порядок значений совпадает с хронологическим —
// это контракт, на который опирается ORDER BY в репозиториях.
func TestWindowLexicalOrder(t *testing.T) {
	windows := AllWindows()
	if !sort.SliceIsSorted(windows, func(i, j int) bool {
		return windows[i] < windows[j]
	}) {
		t.Fatalf("окна не отсортированы лексикографически: %v", windows)
	}
}

func TestWindowBounds(t *testing.T) {
	start, end := Window10to11.Bounds()
	if start != "10:00" || end != "11:00" {
		t.Fatalf("bounds = %s-%s", start, end)
	}
	if Window9to10.Label() == "" || Window11to12.Label() == "" {
		t.Fatal("пустая подпись окна")
	}
}
