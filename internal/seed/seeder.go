package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/logger"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev fills the development database with realistic content: tags,
// projects, blog posts with nested resources, gallery images, an admin user
// and enough search traffic to light up the analytics dashboard.
func (s *Seeder) SeedDev() error {
	logger.Info("Seeding admin user...")
	if err := s.seedAdmin("admin@example.com", "admin", "changeme"); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	logger.Info("Seeding tags...")
	tags, err := s.seedTags()
	if err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}

	logger.Info("Seeding projects...")
	if err := s.seedProjects(tags, 12); err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}

	logger.Info("Seeding blog posts...")
	if err := s.seedBlogs(tags, 25); err != nil {
		return fmt.Errorf("failed to seed blogs: %w", err)
	}

	logger.Info("Seeding gallery images...")
	if err := s.seedImages(tags, 40); err != nil {
		return fmt.Errorf("failed to seed images: %w", err)
	}

	logger.Info("Seeding search traffic...")
	if err := s.seedSearchTraffic(300); err != nil {
		return fmt.Errorf("failed to seed search traffic: %w", err)
	}

	logger.Info("Seeding complete")
	return nil
}

// Clean removes all seeded content and analytics. Users are kept.
func (s *Seeder) Clean() error {
	tables := []string{
		"blog_tags", "project_tags", "image_tags",
		"code_examples", "faqs", "blog_metrics",
		"images", "blogs", "projects", "tags",
		"search_histories", "search_analytics",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	logger.Info("Seed data cleaned", zap.Int("tables", len(tables)))
	return nil
}

func (s *Seeder) seedAdmin(email, username, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         "admin",
	}
	return s.db.Where(models.User{Email: email}).
		Attrs(user).
		FirstOrCreate(&user).Error
}

var tagNames = []string{
	"Go", "Rust", "TypeScript", "PostgreSQL", "Redis", "Kubernetes",
	"Photography", "Travel", "Architecture", "Generative Art",
	"Distributed Systems", "Performance", "Testing", "CLI",
}

func (s *Seeder) seedTags() ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag := models.Tag{Name: name, Slug: util.Slugify(name)}
		if err := s.db.Where(models.Tag{Slug: tag.Slug}).Attrs(tag).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Seeder) seedProjects(tags []models.Tag, count int) error {
	for i := 0; i < count; i++ {
		title := gofakeit.ProductName()
		publishedAt := gofakeit.DateRange(time.Now().AddDate(-2, 0, 0), time.Now())
		project := models.Project{
			Title:       title,
			Slug:        util.Slugify(fmt.Sprintf("%s-%d", title, i)),
			Description: gofakeit.Sentence(14),
			Content:     gofakeit.Paragraph(4, 5, 12, "\n\n"),
			RepoURL:     fmt.Sprintf("https://github.com/%s/%s", gofakeit.Username(), util.Slugify(title)),
			Featured:    i < 3,
			Published:   i%5 != 4, // leave some drafts
			Views:       rand.Intn(2000),
			Tags:        pickTags(tags, 1+rand.Intn(3)),
		}
		if project.Published {
			project.PublishedAt = &publishedAt
		}
		if err := s.db.Create(&project).Error; err != nil {
			return err
		}
		if err := s.bumpTagCounts(project.Tags); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedBlogs(tags []models.Tag, count int) error {
	for i := 0; i < count; i++ {
		title := gofakeit.Sentence(6)
		title = strings.TrimSuffix(title, ".")
		content := gofakeit.Paragraph(8, 6, 14, "\n\n")
		publishedAt := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())

		blog := models.Blog{
			Title:       title,
			Slug:        util.Slugify(fmt.Sprintf("%s-%d", title, i)),
			Excerpt:     gofakeit.Sentence(18),
			Content:     content,
			ReadingTime: 1 + len(strings.Fields(content))/200,
			Published:   i%6 != 5,
			Views:       rand.Intn(5000),
			Tags:        pickTags(tags, 1+rand.Intn(3)),
		}
		if blog.Published {
			blog.PublishedAt = &publishedAt
		}

		for j := 0; j < rand.Intn(3); j++ {
			blog.CodeExamples = append(blog.CodeExamples, models.CodeExample{
				Title:     gofakeit.Sentence(4),
				Language:  gofakeit.RandomString([]string{"go", "sql", "bash", "typescript"}),
				Code:      fmt.Sprintf("// %s\nfunc main() {}\n", gofakeit.HackerPhrase()),
				SortOrder: j,
			})
		}
		for j := 0; j < rand.Intn(3); j++ {
			blog.FAQs = append(blog.FAQs, models.FAQ{
				Question:  gofakeit.Question(),
				Answer:    gofakeit.Sentence(20),
				SortOrder: j,
			})
		}

		if err := s.db.Create(&blog).Error; err != nil {
			return err
		}
		if err := s.bumpTagCounts(blog.Tags); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedImages(tags []models.Tag, count int) error {
	for i := 0; i < count; i++ {
		image := models.Image{
			URL:     fmt.Sprintf("https://images.example.com/%s.jpg", gofakeit.UUID()),
			Alt:     gofakeit.Sentence(5),
			Caption: gofakeit.Sentence(10),
			Width:   1200,
			Height:  800,
			Tags:    pickTags(tags, 1+rand.Intn(2)),
		}
		if err := s.db.Create(&image).Error; err != nil {
			return err
		}
		if err := s.bumpTagCounts(image.Tags); err != nil {
			return err
		}
	}
	return nil
}

// seedSearchTraffic writes history rows and aggregates the way real traffic
// would: repeated popular queries, a long tail, some zero-result misses and
// a plausible click-through rate.
func (s *Seeder) seedSearchTraffic(count int) error {
	popular := []string{"go", "postgres", "photography", "kubernetes", "testing"}
	sessions := make([]string, 20)
	for i := range sessions {
		sessions[i] = gofakeit.UUID()
	}

	for i := 0; i < count; i++ {
		var query string
		switch {
		case rand.Float64() < 0.5:
			query = popular[rand.Intn(len(popular))]
		case rand.Float64() < 0.8:
			query = strings.ToLower(gofakeit.Word())
		default:
			// Guaranteed miss; feeds the zero-result report
			query = "zz-" + gofakeit.Word()
		}

		results := rand.Intn(12)
		if strings.HasPrefix(query, "zz-") {
			results = 0
		}
		clicked := results > 0 && rand.Float64() < 0.35
		createdAt := gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now())

		history := models.SearchHistory{
			Query:     query,
			Results:   results,
			Clicked:   clicked,
			SessionID: sessions[rand.Intn(len(sessions))],
			Category:  "all",
			CreatedAt: createdAt,
		}
		if err := s.db.Create(&history).Error; err != nil {
			return err
		}

		var agg models.SearchAnalytics
		err := s.db.Where(models.SearchAnalytics{Query: query}).
			Attrs(models.SearchAnalytics{FirstSearched: createdAt, LastSearched: createdAt}).
			FirstOrCreate(&agg).Error
		if err != nil {
			return err
		}

		agg.AvgResults = (agg.AvgResults*float64(agg.SearchCount) + float64(results)) / float64(agg.SearchCount+1)
		agg.SearchCount++
		if clicked {
			agg.ClickCount++
		}
		agg.ClickRate = float64(agg.ClickCount) * 100.0 / float64(agg.SearchCount)
		if createdAt.After(agg.LastSearched) {
			agg.LastSearched = createdAt
		}
		if err := s.db.Save(&agg).Error; err != nil {
			return err
		}
	}

	logger.Info("Search traffic seeded", zap.Int("searches", count))
	return nil
}

func (s *Seeder) bumpTagCounts(tags []models.Tag) error {
	for _, t := range tags {
		err := s.db.Model(&models.Tag{}).
			Where("id = ?", t.ID).
			UpdateColumn("count", gorm.Expr("count + 1")).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func pickTags(tags []models.Tag, n int) []models.Tag {
	if n > len(tags) {
		n = len(tags)
	}
	idx := rand.Perm(len(tags))[:n]
	out := make([]models.Tag, 0, n)
	for _, i := range idx {
		out = append(out, tags[i])
	}
	return out
}
