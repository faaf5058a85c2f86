package routing

import "fmt"

// SearchProfile selects the routing behaviour for a route computation. It
// covers every Mode plus the parking and sharing refinements of car and bike
// travel.
type SearchProfile uint8

const (
	ProfileFoot SearchProfile = iota
	ProfileWheelchair
	ProfileBike
	ProfileFlex
	ProfileCar
	ProfileCarParking
	ProfileCarParkingWheelchair
	ProfileBikeSharing
)

// profileNames is indexed by SearchProfile
var profileNames = [...]string{
	ProfileFoot:                 "foot",
	ProfileWheelchair:           "wheelchair",
	ProfileBike:                 "bike",
	ProfileFlex:                 "flex",
	ProfileCar:                  "car",
	ProfileCarParking:           "car_parking",
	ProfileCarParkingWheelchair: "car_parking_wheelchair",
	ProfileBikeSharing:          "bike_sharing",
}

var profilesByName = func() map[string]SearchProfile {
	m := make(map[string]SearchProfile, len(profileNames))
	for i, name := range profileNames {
		m[name] = SearchProfile(i)
	}
	return m
}()

// SearchProfiles returns every profile in declaration order
func SearchProfiles() []SearchProfile {
	profiles := make([]SearchProfile, len(profileNames))
	for i := range profileNames {
		profiles[i] = SearchProfile(i)
	}
	return profiles
}

// ProfileNames returns the canonical name of every profile in declaration order
func ProfileNames() []string {
	names := make([]string, len(profileNames))
	copy(names, profileNames[:])
	return names
}

// String returns the canonical name of the profile
func (p SearchProfile) String() string {
	if p.IsValid() {
		return profileNames[p]
	}
	return fmt.Sprintf("SearchProfile(%d)", uint8(p))
}

// IsValid checks if the profile is one of the declared profiles
func (p SearchProfile) IsValid() bool {
	return int(p) < len(profileNames)
}

// ParseSearchProfile converts a canonical name back to a SearchProfile.
//
// Matching is exact: names are case sensitive and surrounding whitespace is
// not trimmed. Any other input yields *ErrUnrecognizedProfileName.
func ParseSearchProfile(s string) (SearchProfile, error) {
	if p, ok := profilesByName[s]; ok {
		return p, nil
	}
	return 0, &ErrUnrecognizedProfileName{Name: s}
}

// Mode returns the primary modality of the profile. An out-of-range profile
// yields a Mode for which IsValid is false.
func (p SearchProfile) Mode() Mode {
	switch p {
	case ProfileFoot:
		return ModeFoot
	case ProfileWheelchair:
		return ModeWheelchair
	case ProfileBike, ProfileBikeSharing:
		return ModeBike
	case ProfileFlex:
		return ModeFlex
	case ProfileCar, ProfileCarParking, ProfileCarParkingWheelchair:
		return ModeCar
	}
	return modeInvalid
}

// IsParking reports whether the route ends with parking the car and walking
func (p SearchProfile) IsParking() bool {
	return p == ProfileCarParking || p == ProfileCarParkingWheelchair
}

// IsSharing reports whether the profile uses a shared vehicle
func (p SearchProfile) IsSharing() bool {
	return p == ProfileBikeSharing
}

// IsWheelchair reports whether walking segments must be wheelchair accessible
func (p SearchProfile) IsWheelchair() bool {
	return p == ProfileWheelchair || p == ProfileCarParkingWheelchair
}

// MarshalText implements encoding.TextMarshaler
func (p SearchProfile) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", p)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *SearchProfile) UnmarshalText(text []byte) error {
	parsed, err := ParseSearchProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
