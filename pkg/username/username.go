package username

import (
	"fmt"
	"math/rand"
)

var animals = []string{
	"wolf", "hawk", "bear", "tiger", "lion",
	"eagle", "fox", "panther", "shark", "falcon",
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const suffixLen = 5

// Generate возвращает анонимное имя вида anonymous_wolf-x7k2p.
// Имя — только отображаемое: личность отправителя не проверяется.
func Generate() string {
	suffix := make([]byte, suffixLen)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return fmt.Sprintf("anonymous_%s-%s", animals[rand.Intn(len(animals))], suffix)
}
