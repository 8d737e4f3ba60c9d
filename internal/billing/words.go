package billing

import (
	"math"
	"strings"
)

var smallWords = [...]string{
	"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit",
	"neuf", "dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
	"dix-sept", "dix-huit", "dix-neuf",
}

var tensWords = [...]string{"", "dix", "vingt", "trente", "quarante", "cinquante", "soixante"}

// AmountInWords renders a dinar amount in French words for the legal text of
// printed documents. The fractional part is expressed in millimes (three
// decimal currency subunits) and the millimes clause is omitted when zero.
// Negative amounts never occur in practice; they are rendered with a
// leading "moins" rather than rejected.
func AmountInWords(amount float64) string {
	var b strings.Builder
	if amount < 0 {
		b.WriteString("moins ")
		amount = -amount
	}

	dinars := int64(math.Floor(amount))
	millimes := int64(math.Round((amount - math.Floor(amount)) * 1000))
	if millimes >= 1000 {
		dinars++
		millimes -= 1000
	}

	b.WriteString(cardinal(dinars))
	b.WriteString(" dinars")
	if millimes > 0 {
		b.WriteString(" et ")
		b.WriteString(cardinal(millimes))
		b.WriteString(" millimes")
	}
	return b.String()
}

func cardinal(n int64) string {
	if n == 0 {
		return smallWords[0]
	}
	var parts []string
	if n >= 1_000_000_000 {
		q := n / 1_000_000_000
		n %= 1_000_000_000
		parts = append(parts, cardinal(q)+" "+plural("milliard", q))
	}
	if n >= 1_000_000 {
		q := n / 1_000_000
		n %= 1_000_000
		parts = append(parts, cardinal(q)+" "+plural("million", q))
	}
	if n >= 1000 {
		q := n / 1000
		n %= 1000
		if q == 1 {
			parts = append(parts, "mille")
		} else {
			// vingts/cents lose their plural s when multiplying mille
			parts = append(parts, belowThousand(int(q), false)+" mille")
		}
	}
	if n > 0 {
		parts = append(parts, belowThousand(int(n), true))
	}
	return strings.Join(parts, " ")
}

func plural(word string, q int64) string {
	if q > 1 {
		return word + "s"
	}
	return word
}

func belowThousand(n int, final bool) string {
	if n < 100 {
		return belowHundred(n, final)
	}
	h := n / 100
	r := n % 100
	head := "cent"
	if h > 1 {
		head = smallWords[h] + " cent"
		if r == 0 && final {
			head += "s"
		}
	}
	if r == 0 {
		return head
	}
	return head + " " + belowHundred(r, final)
}

func belowHundred(n int, final bool) string {
	switch {
	case n < 20:
		return smallWords[n]
	case n < 70:
		t := tensWords[n/10]
		r := n % 10
		switch r {
		case 0:
			return t
		case 1:
			return t + " et un"
		default:
			return t + "-" + smallWords[r]
		}
	case n < 80:
		r := n - 60
		if r == 11 {
			return "soixante et onze"
		}
		return "soixante-" + smallWords[r]
	default:
		r := n - 80
		if r == 0 {
			if final {
				return "quatre-vingts"
			}
			return "quatre-vingt"
		}
		return "quatre-vingt-" + smallWords[r]
	}
}
