package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Compare orders two semantic versions: 1 if a > b, -1 if a < b, 0 if equal.
// A leading "v" is ignored.
func Compare(a, b string) (int, error) {
	type version struct {
		major, minor, patch int
	}

	parse := func(s string) (version, error) {
		var v version
		_, err := fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &v.major, &v.minor, &v.patch)
		if err != nil {
			return v, fmt.Errorf("parse version %q: %w", s, err)
		}
		return v, nil
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range []lo.Tuple2[int, int]{
		lo.T2(av.major, bv.major),
		lo.T2(av.minor, bv.minor),
		lo.T2(av.patch, bv.patch),
	} {
		if pair.A != pair.B {
			return lo.Ternary(pair.A > pair.B, 1, -1), nil
		}
	}

	return 0, nil
}
