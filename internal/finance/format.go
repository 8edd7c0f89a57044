package finance

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var monthLabels = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agt", "Sep", "Okt", "Nov", "Des"}

// MonthLabel nama bulan singkat bahasa Indonesia.
func MonthLabel(m time.Month) string {
	return monthLabels[m-1]
}

// FormatRupiah: 1500000 -> "Rp 1.500.000" (tanpa desimal).
func FormatRupiah(v float64) string {
	return "Rp " + humanize.FormatFloat("#.###,", v)
}

// FormatCompact: >= 1 juta "Rp 1.5Jt", >= 1 ribu "Rp 150rb".
func FormatCompact(v float64) string {
	switch {
	case v >= 1_000_000:
		return "Rp " + strconv.FormatFloat(v/1_000_000, 'f', 1, 64) + "Jt"
	case v >= 1_000:
		return "Rp " + strconv.FormatFloat(v/1_000, 'f', 0, 64) + "rb"
	}
	return "Rp " + strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatKg: 1234.5 -> "1.234,5 kg".
func FormatKg(v float64) string {
	if v == float64(int64(v)) {
		return humanize.FormatFloat("#.###,", v) + " kg"
	}
	return humanize.FormatFloat("#.###,#", v) + " kg"
}
