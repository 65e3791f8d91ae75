package generator

import (
	"errors"
	"regexp"
)

var ErrNoImagePath = errors.New("no generated image path in script output")

var pathPatterns = map[string]*regexp.Regexp{
	"png": regexp.MustCompile(`results/gen_img[^\s"']*?\.png`),
	"gif": regexp.MustCompile(`results/gen_img[^\s"']*?\.gif`),
}

// ExtractPath returns the first results/gen_img*.png path in stdout.
func ExtractPath(stdout string) (string, error) {
	return extract(stdout, "png")
}

func extract(stdout, ext string) (string, error) {
	re, ok := pathPatterns[ext]
	if !ok {
		re = pathPatterns["png"]
	}
	m := re.FindString(stdout)
	if m == "" {
		return "", ErrNoImagePath
	}
	return m, nil
}
