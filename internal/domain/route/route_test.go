package route

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testLocales  = []string{"en", "id"}
	testReserved = []string{"api", "auth", "dashboard", "static", "favicon.ico", "privacy"}
)

func newTestClassifier() *Classifier {
	return NewClassifier(testLocales, testReserved)
}

func TestClassify(t *testing.T) {
	c := newTestClassifier()
	cases := []struct {
		path string
		want Class
	}{
		{"/dashboard", Reserved},
		{"/dashboard/profile/skills", Reserved},
		{"/Dashboard", Reserved},
		{"/api/profiles/johndoe", Reserved},
		{"/favicon.ico", Reserved},
		{"/en", LocalePrefixed},
		{"/id/johndoe", LocalePrefixed},
		{"/en/some/deep/path", LocalePrefixed},
		{"/johndoe", BareProfile},
		{"/johndoe/", BareProfile},
		{"//johndoe", BareProfile},
		{"/EN", BareProfile},
		{"/", MissingLocale},
		{"", MissingLocale},
		{"/projects/awesome", MissingLocale},
		{"/fr/johndoe", MissingLocale},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.path))
		})
	}
}

func TestDecide(t *testing.T) {
	c := newTestClassifier()
	cases := []struct {
		name     string
		path     string
		query    string
		locale   string
		redirect bool
		location string
	}{
		{"bare profile", "/johndoe", "", "id", true, "/id/johndoe"},
		{"bare profile trailing slash", "/johndoe/", "", "en", true, "/en/johndoe"},
		{"bare profile keeps query", "/johndoe", "ref=cv", "en", true, "/en/johndoe?ref=cv"},
		{"missing locale keeps path and query", "/projects/awesome", "tab=2", "en", true, "/en/projects/awesome?tab=2"},
		{"root", "/", "", "id", true, "/id"},
		{"escaped bytes kept", "/x/%3Fq", "", "en", true, "/en/x/%3Fq"},
		{"escaped bare profile", "/john%20doe", "", "en", true, "/en/john%20doe"},
		{"locale prefixed", "/en/johndoe", "", "id", false, ""},
		{"reserved dashboard", "/dashboard", "", "id", false, ""},
		{"reserved api", "/api/locale", "x=1", "en", false, ""},
		{"no locale no action", "/johndoe", "", "", false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, d := c.Decide(tc.path, tc.query, tc.locale)
			assert.Equal(t, tc.redirect, d.Redirect)
			assert.Equal(t, tc.location, d.Location)
		})
	}
}

// randomPath builds paths from a small alphabet mixed with locale codes and
// reserved segments, including empty segments and trailing slashes.
func randomPath(r *rand.Rand) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJ0123456789-_.~%"
	pool := append(append([]string{}, testLocales...), testReserved...)

	n := r.IntN(5)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte('/')
		switch r.IntN(6) {
		case 0:
			b.WriteString(pool[r.IntN(len(pool))])
		case 1:
			// empty segment
		default:
			l := 1 + r.IntN(12)
			for j := 0; j < l; j++ {
				b.WriteByte(alphabet[r.IntN(len(alphabet))])
			}
		}
	}
	if n == 0 || r.IntN(4) == 0 {
		b.WriteByte('/')
	}
	return b.String()
}

func TestProperty_RedirectIsIdempotent(t *testing.T) {
	c := newTestClassifier()
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 5000; i++ {
		path := randomPath(r)
		query := ""
		if r.IntN(3) == 0 {
			query = "q=1"
		}
		loc := testLocales[r.IntN(len(testLocales))]

		_, first := c.Decide(path, query, loc)
		if !first.Redirect {
			continue
		}
		targetPath, targetQuery, _ := strings.Cut(first.Location, "?")
		_, second := c.Decide(targetPath, targetQuery, testLocales[r.IntN(len(testLocales))])
		require.False(t, second.Redirect, "path %q redirected to %q which redirects again to %q", path, first.Location, second.Location)
	}
}

func TestProperty_ReservedNeverRedirects(t *testing.T) {
	c := newTestClassifier()
	r := rand.New(rand.NewPCG(3, 4))

	for i := 0; i < 2000; i++ {
		reserved := testReserved[r.IntN(len(testReserved))]
		path := "/" + reserved + randomPath(r)
		for _, loc := range testLocales {
			class, d := c.Decide(path, "", loc)
			require.Equal(t, Reserved, class, path)
			require.False(t, d.Redirect, path)
		}
	}
}

func TestProperty_BareSegmentRedirectsToLocalePrefix(t *testing.T) {
	c := newTestClassifier()
	r := rand.New(rand.NewPCG(5, 6))
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789-_"

	for i := 0; i < 2000; i++ {
		l := 1 + r.IntN(20)
		var b strings.Builder
		for j := 0; j < l; j++ {
			b.WriteByte(alphabet[r.IntN(len(alphabet))])
		}
		seg := b.String()
		if c.IsLocale(seg) || c.IsReserved(seg) {
			continue
		}
		loc := testLocales[r.IntN(len(testLocales))]
		class, d := c.Decide("/"+seg, "", loc)
		require.Equal(t, BareProfile, class)
		require.True(t, d.Redirect)
		require.Equal(t, "/"+loc+"/"+seg, d.Location)
		require.Contains(t, testLocales, strings.Split(d.Location, "/")[1])
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "reserved", Reserved.String())
	assert.Equal(t, "bare_profile", BareProfile.String())
	assert.Equal(t, "locale_prefixed", LocalePrefixed.String())
	assert.Equal(t, "missing_locale", MissingLocale.String())
}
