package models

import "github.com/Atig-Hamza/RecoleCheck/internal/docstore"

// ProfileFields is a full profile write, without createdAt.
type ProfileFields struct {
	LastName  string
	FirstName string
	Phone     string
	Email     string
}

func (f ProfileFields) Data() docstore.Data {
	return docstore.Data{
		FieldLastName:  f.LastName,
		FieldFirstName: f.FirstName,
		FieldPhone:     f.Phone,
		FieldEmail:     f.Email,
	}
}

// ProfilePatch is a partial profile write; nil fields are left untouched.
type ProfilePatch struct {
	LastName  *string
	FirstName *string
	Phone     *string
	Email     *string
}

func (p ProfilePatch) Data() docstore.Data {
	data := docstore.Data{}
	putString(data, FieldLastName, p.LastName)
	putString(data, FieldFirstName, p.FirstName)
	putString(data, FieldPhone, p.Phone)
	putString(data, FieldEmail, p.Email)
	return data
}

// ParcelFields is a full parcel write, without id and createdAt.
type ParcelFields struct {
	Name            string
	SurfaceHectares float64
	Crops           []string
	HarvestPeriod   string
}

func (f ParcelFields) Data() docstore.Data {
	return docstore.Data{
		FieldName:            f.Name,
		FieldSurfaceHectares: f.SurfaceHectares,
		FieldCrops:           nonNil(f.Crops),
		FieldHarvestPeriod:   f.HarvestPeriod,
	}
}

// Patch turns a full write into a patch covering every field.
func (f ParcelFields) Patch() ParcelPatch {
	crops := nonNil(f.Crops)
	return ParcelPatch{
		Name:            &f.Name,
		SurfaceHectares: &f.SurfaceHectares,
		Crops:           &crops,
		HarvestPeriod:   &f.HarvestPeriod,
	}
}

// ParcelPatch is a partial parcel write; nil fields are left untouched.
type ParcelPatch struct {
	Name            *string
	SurfaceHectares *float64
	Crops           *[]string
	HarvestPeriod   *string
}

func (p ParcelPatch) Data() docstore.Data {
	data := docstore.Data{}
	putString(data, FieldName, p.Name)
	if p.SurfaceHectares != nil {
		data[FieldSurfaceHectares] = *p.SurfaceHectares
	}
	if p.Crops != nil {
		data[FieldCrops] = nonNil(*p.Crops)
	}
	putString(data, FieldHarvestPeriod, p.HarvestPeriod)
	return data
}

// ZoneFields is a full zone write, without id and createdAt.
type ZoneFields struct {
	Name        string
	Description string
}

func (f ZoneFields) Data() docstore.Data {
	return docstore.Data{
		FieldName:        f.Name,
		FieldDescription: f.Description,
	}
}

// Patch turns a full write into a patch covering every field.
func (f ZoneFields) Patch() ZonePatch {
	return ZonePatch{Name: &f.Name, Description: &f.Description}
}

// ZonePatch is a partial zone write; nil fields are left untouched.
type ZonePatch struct {
	Name        *string
	Description *string
}

func (p ZonePatch) Data() docstore.Data {
	data := docstore.Data{}
	putString(data, FieldName, p.Name)
	putString(data, FieldDescription, p.Description)
	return data
}

// HarvestFields is a full harvest write, without id and createdAt.
type HarvestFields struct {
	Date     int64
	WeightKg float64
	Crop     string
	Notes    string
}

func (f HarvestFields) Data() docstore.Data {
	return docstore.Data{
		FieldDate:     f.Date,
		FieldWeightKg: f.WeightKg,
		FieldCrop:     f.Crop,
		FieldNotes:    f.Notes,
	}
}

// Patch turns a full write into a patch covering every field.
func (f HarvestFields) Patch() HarvestPatch {
	return HarvestPatch{Date: &f.Date, WeightKg: &f.WeightKg, Crop: &f.Crop, Notes: &f.Notes}
}

// HarvestPatch is a partial harvest write; nil fields are left untouched.
type HarvestPatch struct {
	Date     *int64
	WeightKg *float64
	Crop     *string
	Notes    *string
}

func (p HarvestPatch) Data() docstore.Data {
	data := docstore.Data{}
	if p.Date != nil {
		data[FieldDate] = *p.Date
	}
	if p.WeightKg != nil {
		data[FieldWeightKg] = *p.WeightKg
	}
	putString(data, FieldCrop, p.Crop)
	putString(data, FieldNotes, p.Notes)
	return data
}

func putString(data docstore.Data, key string, value *string) {
	if value != nil {
		data[key] = *value
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
