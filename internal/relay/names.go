package relay

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"quiet", "rapid", "bright", "curious", "steady", "brave", "gentle", "lucky", "clever", "sunny",
	"swift", "calm", "bold", "eager", "jolly", "keen", "merry", "nimble", "proud", "witty",
}

var physicists = []string{
	"newton", "curie", "faraday", "maxwell", "bohr", "planck", "noether", "meitner", "fermi", "dirac",
	"kelvin", "hertz", "ampere", "volta", "joule", "tesla", "galileo", "kepler", "hooke", "pascal",
}

// displayName picks a readable label such as "keen-faraday" for log lines
// and board listings. Labels are not unique; participants are identified
// by id.
func displayName() string {
	return fmt.Sprintf("%s-%s", pick(adjectives), pick(physicists))
}

func pick(words []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return words[0]
	}
	return words[n.Int64()]
}
