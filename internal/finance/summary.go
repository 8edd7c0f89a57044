package finance

import (
	"sort"
	"strconv"
	"time"

	"sawitku-backend/internal/models"
)

// Summary hasil penjumlahan transaksi; tidak ada rekonsiliasi.
type Summary struct {
	Income  float64 `json:"pendapatan"`
	Expense float64 `json:"pengeluaran"`
	Profit  float64 `json:"laba"`
	Margin  string  `json:"margin"`
}

func Summarize(rows []models.FinanceTransaction) Summary {
	var s Summary
	for _, t := range rows {
		switch t.Kind {
		case models.FinanceIncome:
			s.Income += t.Amount
		case models.FinanceExpense:
			s.Expense += t.Amount
		}
	}
	s.Profit = s.Income - s.Expense
	s.Margin = FormatMargin(s.Income, s.Profit)
	return s
}

// Margin laba/pendapatan*100; 0 bila pendapatan 0.
func Margin(income, profit float64) float64 {
	if income <= 0 {
		return 0
	}
	return profit / income * 100
}

// FormatMargin satu desimal, "0" bila pendapatan 0.
func FormatMargin(income, profit float64) string {
	if income <= 0 {
		return "0"
	}
	return strconv.FormatFloat(Margin(income, profit), 'f', 1, 64)
}

type Point struct {
	Label   string  `json:"label"`
	Key     string  `json:"key"`
	Income  float64 `json:"pendapatan"`
	Expense float64 `json:"pengeluaran"`
	Profit  float64 `json:"laba"`
}

// DailySeries total per tanggal, urut tanggal naik. Label "05 Jun".
func DailySeries(rows []models.FinanceTransaction) []Point {
	index := map[string]int{}
	out := make([]Point, 0)
	for _, t := range rows {
		key := t.Date.UTC().Format("2006-01-02")
		n, ok := index[key]
		if !ok {
			d := t.Date.UTC()
			out = append(out, Point{Key: key, Label: d.Format("02") + " " + MonthLabel(d.Month())})
			n = len(out) - 1
			index[key] = n
		}
		add(&out[n], t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// MonthlySeries 12 bulan berakhir di bulan `end`, bulan kosong bernilai 0.
func MonthlySeries(rows []models.FinanceTransaction, end time.Time) []Point {
	end = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, -11, 0)
	out := make([]Point, 12)
	for i := range out {
		m := start.AddDate(0, i, 0)
		out[i] = Point{Key: m.Format("2006-01"), Label: MonthLabel(m.Month())}
	}
	for _, t := range rows {
		d := t.Date.UTC()
		i := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
		if i < 0 || i >= 12 {
			continue
		}
		add(&out[i], t)
	}
	return out
}

func add(p *Point, t models.FinanceTransaction) {
	if t.Kind == models.FinanceIncome {
		p.Income += t.Amount
	} else {
		p.Expense += t.Amount
	}
	p.Profit = p.Income - p.Expense
}
