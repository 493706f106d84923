// database/seed.go - Achievement Catalog Seeding
package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studyhub/models"
)

// achievementThresholds are the counter values that earn an achievement,
// shared by every action type.
var achievementThresholds = []int{1, 5, 10, 20, 50, 100}

type achievementSeries struct {
	action     models.ActionType
	baseName   string
	descFormat string
}

var achievementSeriesTable = []achievementSeries{
	{models.ActionSessionCreated, "Session Starter", "Created %d study session(s)"},
	{models.ActionGroupCreated, "Group Founder", "Created %d study group(s)"},
	{models.ActionSessionJoined, "Active Participant", "Joined %d study session(s)"},
	{models.ActionFileUploaded, "Resource Contributor", "Uploaded %d file(s)"},
}

// SeedAchievements inserts the achievement catalog, skipping any
// (action_type, threshold) pair that already exists. Safe to run on every
// startup.
func SeedAchievements(db *gorm.DB) error {
	created := 0
	for _, series := range achievementSeriesTable {
		for _, threshold := range achievementThresholds {
			name := series.baseName
			if threshold > 1 {
				name = series.baseName + " " + romanNumeral(threshold)
			}

			achievement := models.Achievement{
				ActionType:  series.action,
				Threshold:   threshold,
				Name:        name,
				Description: fmt.Sprintf(series.descFormat, threshold),
				Icon: fmt.Sprintf("/icons/achievement_%s_%d.png",
					strings.ToLower(string(series.action)), threshold),
			}

			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&achievement)
			if res.Error != nil {
				return fmt.Errorf("seed achievement %q: %w", name, res.Error)
			}
			if res.RowsAffected > 0 {
				created++
			}
		}
	}

	if created > 0 {
		log.Printf("✅ Seeded %d achievement definitions", created)
	}
	return nil
}

func romanNumeral(n int) string {
	if n >= 100 {
		return "C"
	}
	if n >= 90 {
		return "XC"
	}
	if n >= 50 {
		return "L" + romanNumeral(n-50)
	}
	if n >= 40 {
		return "XL"
	}
	if n >= 10 {
		return "X" + romanNumeral(n-10)
	}
	if n >= 9 {
		return "IX"
	}
	if n >= 5 {
		return "V" + romanNumeral(n-5)
	}
	if n >= 4 {
		return "IV"
	}
	if n >= 1 {
		return "I" + romanNumeral(n-1)
	}
	return ""
}
