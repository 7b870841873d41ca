package recommender

import (
	"strings"
)

const (
	DefaultRelativePrefix = "/"
	DefaultPlaceholder    = "/placeholder.svg"
)

// ImageResolver turns stored image references into URLs a browser can load.
type ImageResolver struct {
	StorageBaseURL string
	RelativePrefix string
	Placeholder    string
}

func NewImageResolver(storageBaseURL, relativePrefix, placeholder string) ImageResolver {
	if relativePrefix == "" {
		relativePrefix = DefaultRelativePrefix
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	return ImageResolver{
		StorageBaseURL: strings.TrimSuffix(storageBaseURL, "/"),
		RelativePrefix: relativePrefix,
		Placeholder:    placeholder,
	}
}

// Resolve replaces the relative prefix with the storage base URL. Empty
// references become the placeholder; anything else is returned unchanged.
func (r ImageResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)

	switch {
	case ref == "":
		return r.Placeholder
	case ref == r.Placeholder:
		return ref
	case strings.HasPrefix(ref, "//"):
		// protocol-relative, already absolute
		return ref
	case strings.HasPrefix(ref, r.RelativePrefix):
		return r.StorageBaseURL + "/" + strings.TrimPrefix(strings.TrimPrefix(ref, r.RelativePrefix), "/")
	}

	return ref
}
