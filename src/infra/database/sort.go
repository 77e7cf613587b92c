package database

import (
	"strings"

	"github.com/gosimple/unidecode"
)

// sortName builds an ASCII sort key for an artist name, moving a leading
// article to the end ("The Beatles" becomes "Beatles, The").
func sortName(name string) string {
	s := unidecode.Unidecode(strings.TrimSpace(name))
	for _, article := range []string{"The ", "A ", "An "} {
		if strings.HasPrefix(s, article) && len(s) > len(article) {
			return s[len(article):] + ", " + strings.TrimSpace(article)
		}
	}
	return s
}
