package version

import (
	"fmt"
	"strings"
)

type semver [3]int

func parseSemver(s string) (v semver, err error) {
	_, err = fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &v[0], &v[1], &v[2])
	return
}

// Compare returns 1 if a is newer than b, -1 if older and 0 if equal.
// Both must be major.minor.patch, optionally prefixed with "v".
func Compare(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, err
	}

	bv, err := parseSemver(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		switch {
		case av[i] > bv[i]:
			return 1, nil
		case av[i] < bv[i]:
			return -1, nil
		}
	}
	return 0, nil
}
