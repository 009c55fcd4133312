package extract

import (
	"regexp"
	"strings"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// containerFormat is the normalized ISO 6346 shape: four letters (owner
// code plus equipment category) followed by six serial digits and a check
// digit.
var containerFormat = regexp.MustCompile(`^[A-Z]{4}\d{7}$`)

// letterValues maps ISO 6346 letters to their numeric values. The standard
// skips multiples of 11, so the sequence is not contiguous: A=10, B=12,
// K=21, L=23, U=32, V=34.
var letterValues = map[byte]int{
	'A': 10, 'B': 12, 'C': 13, 'D': 14, 'E': 15, 'F': 16, 'G': 17,
	'H': 18, 'I': 19, 'J': 20, 'K': 21, 'L': 23, 'M': 24, 'N': 25,
	'O': 26, 'P': 27, 'Q': 28, 'R': 29, 'S': 30, 'T': 31, 'U': 32,
	'V': 34, 'W': 35, 'X': 36, 'Y': 37, 'Z': 38,
}

// NormalizeContainer uppercases a raw container number and strips spaces
// and hyphens, the separators OCR output tends to introduce between the
// owner code and the serial.
func NormalizeContainer(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return cleaned
}

// ValidateContainer checks a container number against the ISO 6346 check
// digit. Malformed numbers are returned with Valid=false rather than
// dropped, so downstream rules can surface them.
func ValidateContainer(raw string) domain.ContainerNumber {
	number := NormalizeContainer(raw)
	return domain.ContainerNumber{
		Number: number,
		Valid:  checkDigitValid(number),
	}
}

func checkDigitValid(number string) bool {
	if !containerFormat.MatchString(number) {
		return false
	}

	sum := 0
	weight := 1 // 2^position, position 0..9
	for i := 0; i < 10; i++ {
		var value int
		ch := number[i]
		if ch >= 'A' && ch <= 'Z' {
			value = letterValues[ch]
		} else {
			value = int(ch - '0')
		}
		sum += value * weight
		weight *= 2
	}

	expected := sum % 11 % 10
	return expected == int(number[10]-'0')
}
