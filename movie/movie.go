package movie

import (
	"strings"

	"moviefav/errs"
)

var ErrNoResults = errs.Errorf(errs.ENOTFOUND, "No movie found")

const (
	coverSuffix      = "_V1_.jpg"
	largeCoverSuffix = "_V1_UX500.jpg"
)

// Movie is a favorite movie record. Title is the natural key used for removal
// but uniqueness is not enforced.
type Movie struct {
	Title     string `json:"movieTitle" bson:"movieTitle"`
	Year      string `json:"year" bson:"year"`
	CastStars string `json:"castStars" bson:"castStars"`
	Cover     string `json:"cover" bson:"cover"`
}

// LargeCover asks the image host for a 500px wide rendition. Only URLs ending
// exactly in "_V1_.jpg" are rewritten, everything else passes through.
func LargeCover(url string) string {
	if !strings.HasSuffix(url, coverSuffix) {
		return url
	}
	return strings.TrimSuffix(url, coverSuffix) + largeCoverSuffix
}
