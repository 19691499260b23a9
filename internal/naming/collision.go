package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveCollision returns path unchanged when nothing exists there.
// Otherwise it probes "stem_1.ext", "stem_2.ext", ... with increasing
// integers and returns the first free path.
func ResolveCollision(path string) string {
	if !pathExists(path) {
		return path
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !pathExists(candidate) {
			return candidate
		}
	}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
