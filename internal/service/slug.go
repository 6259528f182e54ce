package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pkordes/store-locator/internal/domain"
	"github.com/pkordes/store-locator/internal/repo"
)

// nonSlug matches every run of characters that cannot appear in a slug.
// Letters and digits of any script are kept.
var nonSlug = regexp.MustCompile(`[^\p{L}\p{N}\p{M}]+`)

// letterFolds spells out letters that carry no combining mark to strip.
var letterFolds = strings.NewReplacer(
	"ß", "ss", "ẞ", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// Slugify turns a display name into its base slug: accents are folded,
// letters lowercased, and every run of other characters becomes one hyphen.
// Leading and trailing hyphens are dropped. "Café  Nero!" becomes "cafe-nero"
// and "Straße" becomes "strasse". Letters of other scripts are kept as is.
func Slugify(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	s := nonSlug.ReplaceAllString(strings.ToLower(letterFolds.Replace(folded)), "-")
	return strings.Trim(s, "-")
}

// slugSource is the part of repo.StoreRepo the resolver reads.
type slugSource interface {
	MatchingSlugs(ctx context.Context, base string, excludeID uuid.UUID) ([]string, error)
}

var _ slugSource = (repo.StoreRepo)(nil)

// SlugResolver derives unique slugs from store names.
type SlugResolver struct {
	stores slugSource
}

// NewSlugResolver constructs a SlugResolver reading existing slugs from stores.
func NewSlugResolver(stores slugSource) *SlugResolver {
	return &SlugResolver{stores: stores}
}

// Resolve returns the slug a store named name should carry.
//
// currentSlug is the store's slug when updating and empty when creating;
// excludeID is the store's ID when updating and uuid.Nil when creating.
// A current slug that already encodes the base of name is returned unchanged.
// Otherwise the base is returned if free, and base-(N+1) if N slugs already
// match ^base(-[0-9]+)?$, moving further up if that number is taken too.
//
// Resolve does not reserve the slug. The caller persists it and retries on
// domain.ErrDuplicateSlug.
func (r *SlugResolver) Resolve(ctx context.Context, name, currentSlug string, excludeID uuid.UUID) (string, error) {
	base := Slugify(strings.TrimSpace(name))
	if base == "" {
		return "", domain.NewValidationError("name", "must contain at least one letter or digit")
	}
	if currentSlug != "" && hasBase(currentSlug, base) {
		return currentSlug, nil
	}

	matches, err := r.stores.MatchingSlugs(ctx, base, excludeID)
	if err != nil {
		return "", fmt.Errorf("service.SlugResolver.Resolve: %w", err)
	}
	if len(matches) == 0 {
		return base, nil
	}

	taken := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		taken[strings.ToLower(m)] = struct{}{}
	}
	n := len(matches) + 1
	for {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, ok := taken[candidate]; !ok {
			return candidate, nil
		}
		n++
	}
}

// hasBase reports whether slug is base or base followed by a numeric suffix.
func hasBase(slug, base string) bool {
	if strings.EqualFold(slug, base) {
		return true
	}
	rest, ok := strings.CutPrefix(strings.ToLower(slug), base+"-")
	if !ok || rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
