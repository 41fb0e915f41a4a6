package demographics

import "sort"

// SurveyRecord is the field projection of one resident record needed by the
// aggregation pipeline. All fields carry raw operator-entered text.
type SurveyRecord struct {
	Purok                 string `json:"purok"`
	NumberOfFamilies      string `json:"numberOfFamilies"`
	HouseholdNumber       string `json:"householdNumber"`
	Sex                   string `json:"sex"`
	CivilStatus           string `json:"civilStatus"`
	FamilyPlanning        string `json:"familyPlanning"`
	Religion              string `json:"religion"`
	CommunityGroup        string `json:"communityGroup"`
	EducationalAttainment string `json:"educationalAttainment"`
	Occupation            string `json:"occupation"`
}

// NameValue is one chart row: a category name with its count.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// GenderTotals holds the global male/female counts. Records whose sex does
// not normalize to M or F are excluded from the gender chart entirely.
type GenderTotals struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// GenderRow is the per-purok male/female breakdown.
type GenderRow struct {
	Name   string `json:"name"`
	Male   int    `json:"male"`
	Female int    `json:"female"`
}

// BreakdownRow is one per-purok row with the inner category counts flattened
// as JSON fields next to the purok label under "name".
type BreakdownRow map[string]interface{}

// Aggregates is the chart-ready output of one aggregation pass.
type Aggregates struct {
	FamiliesPerPurok       []NameValue    `json:"familiesPerPurok"`
	HouseholdsPerPurok     []NameValue    `json:"householdsPerPurok"`
	GenderTotals           GenderTotals   `json:"genderTotals"`
	GenderPerPurok         []GenderRow    `json:"genderPerPurok"`
	CivilStatusTotals      []NameValue    `json:"civilStatusTotals"`
	FamilyPlanningTotals   []NameValue    `json:"familyPlanningTotals"`
	ReligionTotals         []NameValue    `json:"religionTotals"`
	ReligionPerPurok       []BreakdownRow `json:"religionPerPurok"`
	CommunityGroupTotals   []NameValue    `json:"communityGroupTotals"`
	CommunityGroupPerPurok []BreakdownRow `json:"communityGroupPerPurok"`
	EducationTotals        []NameValue    `json:"educationTotals"`
	OccupationTotals       []NameValue    `json:"occupationTotals"`
	OccupationPerPurok     []BreakdownRow `json:"occupationPerPurok"`
}

// accumulator holds all counters for one aggregation pass. A fresh one is
// built per invocation so concurrent requests never share mutable state.
type accumulator struct {
	familySets    map[string]map[string]struct{}
	householdSets map[string]map[string]struct{}

	maleTotal      int
	femaleTotal    int
	genderPerPurok map[string]*GenderTotals

	civilCounts          map[string]int
	familyPlanningCounts map[string]int

	religionCounts  map[string]int
	religionByPurok map[string]map[string]int

	communityCounts  map[string]int
	communityByPurok map[string]map[string]int

	educationCounts map[string]int

	occupationCounts  map[string]int
	occupationByPurok map[string]map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{
		familySets:           make(map[string]map[string]struct{}),
		householdSets:        make(map[string]map[string]struct{}),
		genderPerPurok:       make(map[string]*GenderTotals),
		civilCounts:          make(map[string]int),
		familyPlanningCounts: make(map[string]int),
		religionCounts:       make(map[string]int),
		religionByPurok:      make(map[string]map[string]int),
		communityCounts:      make(map[string]int),
		communityByPurok:     make(map[string]map[string]int),
		educationCounts:      make(map[string]int),
		occupationCounts:     make(map[string]int),
		occupationByPurok:    make(map[string]map[string]int),
	}
}

// Aggregate runs the full normalization and aggregation pipeline in one
// linear pass over records. Every record contributes to every accumulator
// exactly once; records missing a field land in that field's Unknown bucket
// instead of being dropped. Puroks with zero records simply do not appear.
func Aggregate(records []SurveyRecord) *Aggregates {
	acc := newAccumulator()
	for i := range records {
		acc.add(&records[i])
	}
	return acc.finalize()
}

func (a *accumulator) add(rec *SurveyRecord) {
	purok := CategoryUnknown
	if key, ok := normalizeKey(rec.Purok); ok {
		purok = key
	}

	sex := NormalizeSex(rec.Sex)
	civil := NormalizeCivilStatus(rec.CivilStatus)
	planning := NormalizeFamilyPlanning(rec.FamilyPlanning)
	religion := NormalizeFreeText(rec.Religion)
	community := NormalizeFreeText(rec.CommunityGroup)
	education := NormalizeEducation(rec.EducationalAttainment)
	occupation := NormalizeFreeText(rec.Occupation)

	// Distinct families and households per purok. Absent identifiers are
	// skipped rather than counted as an empty value.
	if a.familySets[purok] == nil {
		a.familySets[purok] = make(map[string]struct{})
	}
	if a.householdSets[purok] == nil {
		a.householdSets[purok] = make(map[string]struct{})
	}
	if fam, ok := normalizeKey(rec.NumberOfFamilies); ok {
		a.familySets[purok][fam] = struct{}{}
	}
	if house, ok := normalizeKey(rec.HouseholdNumber); ok {
		a.householdSets[purok][house] = struct{}{}
	}

	// Gender counters only see recognized M/F; unspecified and Unknown sex
	// vanish from the gender chart but still reach every other accumulator.
	if a.genderPerPurok[purok] == nil {
		a.genderPerPurok[purok] = &GenderTotals{}
	}
	switch sex {
	case SexMale:
		a.maleTotal++
		a.genderPerPurok[purok].Male++
	case SexFemale:
		a.femaleTotal++
		a.genderPerPurok[purok].Female++
	}

	a.civilCounts[civil]++

	// Family planning is tracked for females only.
	if sex == SexFemale {
		a.familyPlanningCounts[planning]++
	}

	a.religionCounts[religion]++
	bumpNested(a.religionByPurok, purok, religion)

	a.communityCounts[community]++
	bumpNested(a.communityByPurok, purok, community)

	a.educationCounts[education]++

	a.occupationCounts[occupation]++
	bumpNested(a.occupationByPurok, purok, occupation)
}

func bumpNested(m map[string]map[string]int, purok, category string) {
	if m[purok] == nil {
		m[purok] = make(map[string]int)
	}
	m[purok][category]++
}

func (a *accumulator) finalize() *Aggregates {
	return &Aggregates{
		FamiliesPerPurok:   setsToSortedRows(a.familySets),
		HouseholdsPerPurok: setsToSortedRows(a.householdSets),
		GenderTotals: GenderTotals{
			Male:   a.maleTotal,
			Female: a.femaleTotal,
		},
		GenderPerPurok:         a.genderRows(),
		CivilStatusTotals:      countsToSortedRows(a.civilCounts),
		FamilyPlanningTotals:   countsToSortedRows(a.familyPlanningCounts),
		ReligionTotals:         countsToSortedRows(a.religionCounts),
		ReligionPerPurok:       nestedToRows(a.religionByPurok),
		CommunityGroupTotals:   countsToSortedRows(a.communityCounts),
		CommunityGroupPerPurok: nestedToRows(a.communityByPurok),
		EducationTotals:        countsToSortedRows(a.educationCounts),
		OccupationTotals:       countsToSortedRows(a.occupationCounts),
		OccupationPerPurok:     nestedToRows(a.occupationByPurok),
	}
}

func (a *accumulator) genderRows() []GenderRow {
	keys := make([]string, 0, len(a.genderPerPurok))
	for k := range a.genderPerPurok {
		keys = append(keys, k)
	}
	rows := make([]GenderRow, 0, len(keys))
	for _, k := range SortPurokKeys(keys) {
		counts := a.genderPerPurok[k]
		rows = append(rows, GenderRow{
			Name:   PurokLabel(k),
			Male:   counts.Male,
			Female: counts.Female,
		})
	}
	return rows
}

// setsToSortedRows converts purok-keyed distinct-value sets into cardinality
// rows in purok display order.
func setsToSortedRows(sets map[string]map[string]struct{}) []NameValue {
	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	rows := make([]NameValue, 0, len(keys))
	for _, k := range SortPurokKeys(keys) {
		rows = append(rows, NameValue{Name: PurokLabel(k), Value: len(sets[k])})
	}
	return rows
}

// countsToSortedRows converts a category counter into chart rows sorted by
// count descending, ties broken by name for stable output.
func countsToSortedRows(counts map[string]int) []NameValue {
	rows := make([]NameValue, 0, len(counts))
	for name, value := range counts {
		rows = append(rows, NameValue{Name: name, Value: value})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// nestedToRows flattens purok-keyed category counters into rows carrying the
// purok label under "name" and each category count as its own field, in
// purok display order.
func nestedToRows(nested map[string]map[string]int) []BreakdownRow {
	keys := make([]string, 0, len(nested))
	for k := range nested {
		keys = append(keys, k)
	}
	rows := make([]BreakdownRow, 0, len(keys))
	for _, k := range SortPurokKeys(keys) {
		row := BreakdownRow{"name": PurokLabel(k)}
		for category, count := range nested[k] {
			row[category] = count
		}
		rows = append(rows, row)
	}
	return rows
}
