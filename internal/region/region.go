package region

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"dorm-rental-backend/internal/apperr"
)

//go:embed regions.json
var rawRegions []byte

// Subdistrict is the smallest administrative unit (tambon).
type Subdistrict struct {
	ID         int    `json:"id"`
	DistrictID int    `json:"district_id"`
	NameTH     string `json:"name_th"`
	NameEN     string `json:"name_en"`
	Zip        string `json:"zip"`
}

// District (amphoe) belongs to a province.
type District struct {
	ID           int           `json:"id"`
	ProvinceID   int           `json:"province_id"`
	NameTH       string        `json:"name_th"`
	NameEN       string        `json:"name_en"`
	Subdistricts []Subdistrict `json:"subdistricts,omitempty"`
}

// Province (changwat).
type Province struct {
	ID        int        `json:"id"`
	NameTH    string     `json:"name_th"`
	NameEN    string     `json:"name_en"`
	Districts []District `json:"districts,omitempty"`
}

type index struct {
	provinces    []Province
	provinceByID map[int]Province
	districtByID map[int]District
	subByID      map[int]Subdistrict
	districtsOf  map[int][]District
	subsOf       map[int][]Subdistrict
}

var (
	once sync.Once
	idx  *index
)

func load() *index {
	once.Do(func() {
		var raw []Province
		if err := json.Unmarshal(rawRegions, &raw); err != nil {
			panic(fmt.Sprintf("region: embedded dataset is invalid: %v", err))
		}
		idx = build(raw)
	})
	return idx
}

func build(raw []Province) *index {
	ix := &index{
		provinceByID: make(map[int]Province, len(raw)),
		districtByID: make(map[int]District),
		subByID:      make(map[int]Subdistrict),
		districtsOf:  make(map[int][]District),
		subsOf:       make(map[int][]Subdistrict),
	}
	for _, p := range raw {
		for _, d := range p.Districts {
			d.ProvinceID = p.ID
			for _, s := range d.Subdistricts {
				s.DistrictID = d.ID
				ix.subByID[s.ID] = s
				ix.subsOf[d.ID] = append(ix.subsOf[d.ID], s)
			}
			d.Subdistricts = nil
			ix.districtByID[d.ID] = d
			ix.districtsOf[p.ID] = append(ix.districtsOf[p.ID], d)
		}
		p.Districts = nil
		ix.provinceByID[p.ID] = p
		ix.provinces = append(ix.provinces, p)
	}
	return ix
}

// Provinces lists every province.
func Provinces() []Province {
	return append([]Province(nil), load().provinces...)
}

// Districts lists the districts of a province.
func Districts(provinceID int) []District {
	return append([]District(nil), load().districtsOf[provinceID]...)
}

// Subdistricts lists the subdistricts of a district.
func Subdistricts(districtID int) []Subdistrict {
	return append([]Subdistrict(nil), load().subsOf[districtID]...)
}

// ProvinceByID looks up a province.
func ProvinceByID(id int) (Province, bool) {
	p, ok := load().provinceByID[id]
	return p, ok
}

// DistrictByID looks up a district.
func DistrictByID(id int) (District, bool) {
	d, ok := load().districtByID[id]
	return d, ok
}

// SubdistrictByID looks up a subdistrict.
func SubdistrictByID(id int) (Subdistrict, bool) {
	s, ok := load().subByID[id]
	return s, ok
}

// Validate checks that the given ids nest correctly. Zero ids are unset and
// skipped, but a child cannot be set without its parent. Provinces must be
// known. Districts and subdistricts missing from the embedded data are accepted
// when their administrative code sits under the parent's code (district 8301
// under province 83, subdistrict 830101 under district 8301).
func Validate(provinceID, districtID, subdistrictID int) error {
	if provinceID == 0 {
		if districtID != 0 || subdistrictID != 0 {
			return apperr.Validation("province is required when district or subdistrict is set")
		}
		return nil
	}
	if _, ok := ProvinceByID(provinceID); !ok {
		return apperr.Validation("unknown province %d", provinceID)
	}
	if districtID == 0 {
		if subdistrictID != 0 {
			return apperr.Validation("district is required when subdistrict is set")
		}
		return nil
	}
	if !districtIn(districtID, provinceID) {
		return apperr.Validation("district %d is not in province %d", districtID, provinceID)
	}
	if subdistrictID == 0 {
		return nil
	}
	if !subdistrictIn(subdistrictID, districtID) {
		return apperr.Validation("subdistrict %d is not in district %d", subdistrictID, districtID)
	}
	return nil
}

func districtIn(districtID, provinceID int) bool {
	if d, ok := DistrictByID(districtID); ok {
		return d.ProvinceID == provinceID
	}
	return nestedCode(districtID, provinceID)
}

func subdistrictIn(subdistrictID, districtID int) bool {
	if s, ok := SubdistrictByID(subdistrictID); ok {
		return s.DistrictID == districtID
	}
	return nestedCode(subdistrictID, districtID)
}

// nestedCode reports whether child is a two-digit extension of parent.
func nestedCode(child, parent int) bool {
	return child > 0 && child/100 == parent && child%100 != 0
}
