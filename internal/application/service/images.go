package service

// ImageKind selects the delivery transformation for an image reference.
type ImageKind int

const (
	ImageAvatar ImageKind = iota
	ImageBanner
	ImageProject
)

// ImageResolver turns a stored image reference into a delivery URL.
// Absolute URLs pass through; an empty reference stays empty.
type ImageResolver interface {
	URL(ref string, kind ImageKind) string
}
