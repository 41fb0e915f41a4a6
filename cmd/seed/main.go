// Seeds a barangay database with realistic survey records for local
// development and demos.
package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"barangayserver/database"
)

var (
	puroks = []string{"1", "2", "3", "4", "5", "6", "7"}

	sexes          = []string{"Male", "Female", "M", "F", "male", "female"}
	civilStatuses  = []string{"Single", "Married", "Widowed", "Separated", "single", "married", "Live-in", "live in"}
	familyPlanning = []string{"Yes", "No", "with", "without", "none", "using pills", ""}
	religions      = []string{"Roman Catholic", "Iglesia ni Cristo", "Born Again", "Islam", "Baptist", ""}
	groups         = []string{"4Ps", "Senior Citizen", "PWD", "Farmers Association", "Women's Group", ""}
	education      = []string{"Elementary", "High School", "College", "Vocational", "elementary", "high school", ""}
	occupations    = []string{"Farmer", "Fisherman", "Vendor", "Teacher", "Driver", "Housewife", "Laborer", ""}
	yesNo          = []string{"Yes", "No"}
)

func main() {
	dbPath := flag.String("db", "barangay.db", "path to the database file")
	households := flag.Int("households", 50, "number of households to generate")
	budget := flag.String("budget", "₱5,000,000.00", "total annual budget to record")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(*seed)

	db, err := database.NewDB(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	total := 0
	for h := 1; h <= *households; h++ {
		surname := faker.LastName()
		purok := puroks[faker.Number(0, len(puroks)-1)]
		members := faker.Number(1, 6)

		batch := make([]*database.Resident, 0, members)
		for m := 0; m < members; m++ {
			batch = append(batch, fakeResident(faker, surname, purok, h))
		}

		if err := db.InsertResidents(batch); err != nil {
			slog.Error("failed to insert household", "household", h, "error", err)
			os.Exit(1)
		}
		total += members
	}

	year := time.Now().Year()
	if err := db.SetTotalBudget(year, *budget); err != nil {
		slog.Error("failed to record total budget", "error", err)
		os.Exit(1)
	}

	slog.Info("database seeded",
		"path", *dbPath,
		"households", *households,
		"residents", total,
		"budget_year", year,
	)
}

func fakeResident(faker *gofakeit.Faker, surname, purok string, household int) *database.Resident {
	birthdate := faker.DateRange(
		time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	age := time.Now().Year() - birthdate.Year()

	return &database.Resident{
		Purok:                 purok,
		NumberOfFamilies:      strconv.Itoa(household),
		HouseholdNumber:       strconv.Itoa(household),
		Surname:               surname,
		GivenName:             faker.FirstName(),
		MiddleName:            faker.LastName(),
		Age:                   age,
		Sex:                   pick(faker, sexes),
		CivilStatus:           pick(faker, civilStatuses),
		Birthdate:             birthdate.Format("01/02/2006"),
		Birthplace:            faker.City(),
		FamilyPlanning:        pick(faker, familyPlanning),
		Religion:              pick(faker, religions),
		CommunityGroup:        pick(faker, groups),
		EducationalAttainment: pick(faker, education),
		Occupation:            pick(faker, occupations),
		FourPs:                pick(faker, yesNo),
		IPHousehold:           pick(faker, yesNo),
		HaveToilet:            pick(faker, yesNo),
		MRFSegregation:        pick(faker, yesNo),
		Garden:                pick(faker, yesNo),
		Smoker:                pick(faker, yesNo),
		Classification:        pick(faker, []string{"Resident", "Transient"}),
	}
}

func pick(faker *gofakeit.Faker, options []string) string {
	return options[faker.Number(0, len(options)-1)]
}
