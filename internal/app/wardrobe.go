package app

import (
	"fmt"
	"strconv"

	"family-hub-service/internal/domain"
)

// WardrobeCategory compares one clothing category against the
// age-appropriate recommended count.
type WardrobeCategory struct {
	Name        string `json:"name"`
	Current     int    `json:"current"`
	Recommended int    `json:"recommended"`
	Sufficient  bool   `json:"sufficient"`
	Needed      int    `json:"needed"`
	Details     string `json:"details"`
}

// WardrobeReport is the analyzer output for one child.
type WardrobeReport struct {
	AgeGroup   string             `json:"ageGroup"`
	Categories []WardrobeCategory `json:"categories"`
	Balanced   bool               `json:"balanced"`
}

// AnalyzeWardrobe totals a child's current clothing inventory from the
// profile count attributes and flags categories below the recommended
// count for their age band.
func AnalyzeWardrobe(child domain.ChildRecord) WardrobeReport {
	count := func(key string) int {
		v, ok := child.Attribute(key)
		if !ok {
			return 0
		}
		raw, ok := v.First()
		if !ok {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}

	tshirts := count("currentTshirts")
	longsleeve := count("currentLongsleeve")
	tanks := count("currentTanks")
	blouses := count("currentBlouses")
	jeans := count("currentJeans")
	leggings := count("currentLeggings")
	sweatpants := count("currentSweatpants")
	shorts := count("currentShorts")
	skirts := count("currentSkirts")
	casualDresses := count("currentCasualDresses")
	fancyDresses := count("currentFancyDresses")
	sweaters := count("currentSweaters")
	hoodies := count("currentHoodies")

	var tops, bottoms, dresses, layers int
	var ageGroup string
	switch {
	case child.AgeYears <= 5:
		tops, bottoms, dresses, layers = 8, 6, 3, 4
		ageGroup = "Toddler/Preschool"
	case child.AgeYears <= 10:
		tops, bottoms, dresses, layers = 9, 7, 4, 5
		ageGroup = "Elementary"
	default:
		tops, bottoms, dresses, layers = 12, 8, 6, 7
		ageGroup = "Middle/High School"
	}

	categories := []WardrobeCategory{
		{
			Name:        "Tops",
			Current:     tshirts + longsleeve + tanks + blouses,
			Recommended: tops,
			Details:     fmt.Sprintf("%d t-shirts, %d long-sleeve, %d tanks, %d nice shirts", tshirts, longsleeve, tanks, blouses),
		},
		{
			Name:        "Bottoms",
			Current:     jeans + leggings + sweatpants + shorts + skirts,
			Recommended: bottoms,
			Details:     fmt.Sprintf("%d jeans, %d leggings, %d sweatpants, %d shorts, %d skirts", jeans, leggings, sweatpants, shorts, skirts),
		},
		{
			Name:        "Dresses",
			Current:     casualDresses + fancyDresses,
			Recommended: dresses,
			Details:     fmt.Sprintf("%d casual + %d fancy dresses", casualDresses, fancyDresses),
		},
		{
			Name:        "Layers",
			Current:     sweaters + hoodies,
			Recommended: layers,
			Details:     fmt.Sprintf("%d sweaters + %d hoodies", sweaters, hoodies),
		},
	}

	balanced := true
	for i := range categories {
		categories[i].Sufficient = categories[i].Current >= categories[i].Recommended
		if !categories[i].Sufficient {
			categories[i].Needed = categories[i].Recommended - categories[i].Current
			balanced = false
		}
	}

	return WardrobeReport{
		AgeGroup:   ageGroup,
		Categories: categories,
		Balanced:   balanced,
	}
}
