package imagepool

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
)

func shuffledCopy(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	shuffleInPlace(out)
	return out
}

// Fisher-Yates over the crypto source. Fair ordering is a soft requirement,
// so when crypto randomness is unavailable the weaker PRNG takes over.
func shuffleInPlace(ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		j, err := cryptoIntn(i + 1)
		if err != nil {
			j = mrand.Intn(i + 1)
		}
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func cryptoIntn(n int) (int, error) {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
