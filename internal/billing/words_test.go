package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "zéro dinars"},
		{1, "un dinars"},
		{21, "vingt et un dinars"},
		{71, "soixante et onze dinars"},
		{80, "quatre-vingts dinars"},
		{99, "quatre-vingt-dix-neuf dinars"},
		{100, "cent dinars"},
		{200, "deux cents dinars"},
		{201, "deux cent un dinars"},
		{1000, "mille dinars"},
		{1500, "mille cinq cents dinars"},
		{80000, "quatre-vingt mille dinars"},
		{1000000, "un million dinars"},
		{2000000, "deux millions dinars"},
		{1500.500, "mille cinq cents dinars et cinq cents millimes"},
		{914.444, "neuf cent quatorze dinars et quatre cent quarante-quatre millimes"},
		{0.075, "zéro dinars et soixante-quinze millimes"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(tt.amount))
		})
	}
}

func TestAmountInWordsOmitsZeroMillimes(t *testing.T) {
	assert.NotContains(t, AmountInWords(1500.000), "millimes")
}

func TestAmountInWordsRoundsMillimes(t *testing.T) {
	// Binary floats land just below the third decimal; rounding keeps the
	// printed text aligned with the displayed 3-decimal amount.
	assert.Equal(t, "douze dinars et trois cents millimes", AmountInWords(12.3))
	assert.Equal(t, "un dinars", AmountInWords(0.9999))
}

func TestAmountInWordsNegativeDoesNotPanic(t *testing.T) {
	assert.Equal(t, "moins cinq dinars", AmountInWords(-5))
}
