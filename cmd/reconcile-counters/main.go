package main

import (
	"flag"
	"log"

	"github.com/atelierhq/atelier/internal/database"
	"github.com/joho/godotenv"
)

// Reconciles denormalized counters against their sources of truth:
// tags.count from the three association tables, and
// search_analytics.click_rate from its own click/search counts.
// Content handlers only ever increment; this job trues the numbers up.
func main() {
	godotenv.Load()

	dryRun := flag.Bool("dry-run", false, "Report drift without writing")
	flag.Parse()

	if err := database.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer database.Close()

	db := database.DB

	usageExpr := `(
		(SELECT COUNT(*) FROM blog_tags WHERE blog_tags.tag_id = tags.id) +
		(SELECT COUNT(*) FROM project_tags WHERE project_tags.tag_id = tags.id) +
		(SELECT COUNT(*) FROM image_tags WHERE image_tags.tag_id = tags.id)
	)`

	var driftedTags int64
	err := db.Raw("SELECT COUNT(*) FROM tags WHERE count <> " + usageExpr).Scan(&driftedTags).Error
	if err != nil {
		log.Fatalf("❌ Failed to measure tag drift: %v", err)
	}
	log.Printf("🔎 Tags with drifted counters: %d", driftedTags)

	var driftedRates int64
	err = db.Raw(`SELECT COUNT(*) FROM search_analytics
		WHERE search_count > 0
		AND ABS(click_rate - click_count * 100.0 / search_count) > 0.001`).Scan(&driftedRates).Error
	if err != nil {
		log.Fatalf("❌ Failed to measure click rate drift: %v", err)
	}
	log.Printf("🔎 Analytics rows with drifted click rates: %d", driftedRates)

	if *dryRun {
		log.Println("✅ Dry run complete, nothing written")
		return
	}

	result := db.Exec("UPDATE tags SET count = " + usageExpr)
	if result.Error != nil {
		log.Fatalf("❌ Failed to reconcile tag counters: %v", result.Error)
	}
	log.Printf("✅ Tag counters reconciled (%d rows)", result.RowsAffected)

	result = db.Exec(`UPDATE search_analytics
		SET click_rate = CASE WHEN search_count > 0 THEN click_count * 100.0 / search_count ELSE 0 END`)
	if result.Error != nil {
		log.Fatalf("❌ Failed to reconcile click rates: %v", result.Error)
	}
	log.Printf("✅ Click rates reconciled (%d rows)", result.RowsAffected)
}
