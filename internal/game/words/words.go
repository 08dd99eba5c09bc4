// Package words holds the embedded vocabulary used to equip bot opponents.
package words

import (
	_ "embed"
	"math/rand/v2"
	"strings"
)

//go:embed wordlist.txt
var rawWordlist string

var byLength = func() map[int][]string {
	m := make(map[int][]string)
	for _, w := range strings.Fields(rawWordlist) {
		w = strings.ToLower(w)
		m[len(w)] = append(m[len(w)], w)
	}
	return m
}()

// Supported reports whether the vocabulary has words of the given length.
func Supported(length int) bool {
	return len(byLength[length]) > 0
}

// Random returns a random word of the given length, avoiding any word in
// exclude when possible. Returns false when the length is unsupported.
func Random(length int, exclude map[string]bool) (string, bool) {
	pool := byLength[length]
	if len(pool) == 0 {
		return "", false
	}

	if len(exclude) > 0 {
		fresh := make([]string, 0, len(pool))
		for _, w := range pool {
			if !exclude[w] {
				fresh = append(fresh, w)
			}
		}
		if len(fresh) > 0 {
			pool = fresh
		}
	}
	return pool[rand.IntN(len(pool))], true
}

// Pick returns n distinct random words of the given length. Returns false
// when the vocabulary cannot supply n distinct words.
func Pick(length, n int) ([]string, bool) {
	if len(byLength[length]) < n {
		return nil, false
	}
	picked := make([]string, 0, n)
	used := make(map[string]bool, n)
	for len(picked) < n {
		w, ok := Random(length, used)
		if !ok {
			return nil, false
		}
		used[w] = true
		picked = append(picked, w)
	}
	return picked, true
}
