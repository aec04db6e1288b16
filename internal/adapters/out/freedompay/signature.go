package freedompay

import (
	"crypto/md5" //nolint:gosec // the gateway protocol mandates MD5
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Param is one request parameter. Nested groups are flattened before signing.
// Order matters: flattened names carry a 1-based position counter per level.
type Param struct {
	Key    string
	Value  string
	Nested []Param
}

// flatten names every leaf parent+key+NNN where NNN is the position of the key
// within its level.
func flatten(params []Param, parent string) map[string]string {
	flat := make(map[string]string, len(params))
	for i, p := range params {
		name := fmt.Sprintf("%s%s%03d", parent, p.Key, i+1)
		if p.Nested != nil {
			for k, v := range flatten(p.Nested, name) {
				flat[k] = v
			}
			continue
		}
		flat[name] = p.Value
	}
	return flat
}

// Sign computes pg_sig: the MD5 hex digest of the script name, the flattened
// values ordered by name and the merchant secret, joined with ";".
func Sign(script string, params []Param, secret string) string {
	flat := flatten(params, "")
	names := lo.Keys(flat)
	slices.Sort(names)

	parts := make([]string, 0, len(names)+2)
	parts = append(parts, script)
	for _, name := range names {
		parts = append(parts, flat[name])
	}
	parts = append(parts, secret)

	sum := md5.Sum([]byte(strings.Join(parts, ";"))) //nolint:gosec // protocol
	return hex.EncodeToString(sum[:])
}
