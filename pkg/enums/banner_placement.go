package enums

import "fmt"

// BannerPlacement locates a banner on the storefront home screen.
type BannerPlacement string

const (
	BannerPlacementHomeTop    BannerPlacement = "home_top"
	BannerPlacementHomeMiddle BannerPlacement = "home_middle"
	BannerPlacementCategory   BannerPlacement = "category"
)

var validBannerPlacements = []BannerPlacement{
	BannerPlacementHomeTop,
	BannerPlacementHomeMiddle,
	BannerPlacementCategory,
}

// String implements fmt.Stringer.
func (b BannerPlacement) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BannerPlacement.
func (b BannerPlacement) IsValid() bool {
	for _, candidate := range validBannerPlacements {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBannerPlacement converts raw input into a BannerPlacement.
func ParseBannerPlacement(value string) (BannerPlacement, error) {
	for _, candidate := range validBannerPlacements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid banner placement %q", value)
}
