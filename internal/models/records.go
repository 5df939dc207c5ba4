package models

// Persisted field names.
const (
	FieldCreatedAt       = "createdAt"
	FieldLastName        = "lastName"
	FieldFirstName       = "firstName"
	FieldPhone           = "phone"
	FieldEmail           = "email"
	FieldName            = "name"
	FieldSurfaceHectares = "surfaceHectares"
	FieldCrops           = "crops"
	FieldHarvestPeriod   = "harvestPeriod"
	FieldDescription     = "description"
	FieldDate            = "date"
	FieldWeightKg        = "weightKg"
	FieldCrop            = "crop"
	FieldNotes           = "notes"
)

// UserProfile is the single profile record of a user, stored at users/{userId}.
type UserProfile struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

// DisplayName is "First Last", or fallback when both names are empty.
func (p *UserProfile) DisplayName(fallback string) string {
	if p == nil {
		return fallback
	}
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	case p.LastName != "":
		return p.LastName
	default:
		return fallback
	}
}

// Parcel is an agricultural plot owned by one user.
// Stored at users/{userId}/parcelles/{id}.
type Parcel struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	SurfaceHectares float64  `json:"surfaceHectares"`
	Crops           []string `json:"crops"`
	HarvestPeriod   string   `json:"harvestPeriod"`
	CreatedAt       int64    `json:"createdAt"`
}

// Zone is a named subdivision of a parcel.
// Stored at users/{userId}/parcelles/{parcelId}/zones/{id}.
type Zone struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"createdAt"`
}

// Harvest is one dated yield record within a zone.
// Stored at users/{userId}/parcelles/{parcelId}/zones/{zoneId}/recoltes/{id}.
// Date is the Unix millisecond timestamp of local midnight on the harvest day.
type Harvest struct {
	ID        string  `json:"id"`
	Date      int64   `json:"date"`
	WeightKg  float64 `json:"weightKg"`
	Crop      string  `json:"crop"`
	Notes     string  `json:"notes"`
	CreatedAt int64   `json:"createdAt"`
}
