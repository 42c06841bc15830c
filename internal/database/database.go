package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "teachquest_user")
	password := getEnv("DB_PASSWORD", "teachquest_password")
	dbname := getEnv("DB_NAME", "teachquest")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(50) UNIQUE NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'teacher',
		password VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id            BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		current_xp         BIGINT NOT NULL DEFAULT 0,
		total_xp           BIGINT NOT NULL DEFAULT 0,
		current_level      INT NOT NULL DEFAULT 1,
		level_name         VARCHAR(50) NOT NULL DEFAULT 'Code Cadet',
		streak             INT NOT NULL DEFAULT 0,
		last_activity_date DATE,
		created_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS activity_log (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type        VARCHAR(50) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		xp_earned   INT NOT NULL DEFAULT 0,
		metadata    JSONB,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_activity_user ON activity_log(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS badges (
		id                BIGSERIAL PRIMARY KEY,
		name              VARCHAR(100) UNIQUE NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		icon              VARCHAR(20) NOT NULL DEFAULT '',
		category          VARCHAR(50) NOT NULL DEFAULT 'general',
		requirement_type  VARCHAR(20) NOT NULL,
		requirement_value INT NOT NULL DEFAULT 0,
		xp_reward         INT NOT NULL DEFAULT 0,
		is_active         BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS user_badges (
		user_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		badge_id  BIGINT NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
		earned_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (user_id, badge_id)
	);

	CREATE TABLE IF NOT EXISTS courses (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category    VARCHAR(50) NOT NULL DEFAULT 'general',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS course_videos (
		id               BIGSERIAL PRIMARY KEY,
		course_id        BIGINT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		title            VARCHAR(255) NOT NULL,
		video_url        TEXT NOT NULL,
		duration_seconds INT NOT NULL DEFAULT 0,
		position         INT NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_videos_course ON course_videos(course_id, position);

	CREATE TABLE IF NOT EXISTS video_progress (
		user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		video_id         BIGINT NOT NULL REFERENCES course_videos(id) ON DELETE CASCADE,
		watch_percentage INT NOT NULL DEFAULT 0,
		completed        BOOLEAN NOT NULL DEFAULT FALSE,
		xp_awarded       BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (user_id, video_id)
	);

	CREATE TABLE IF NOT EXISTS resources (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		file_url    TEXT NOT NULL,
		file_type   VARCHAR(20) NOT NULL DEFAULT 'pdf',
		category    VARCHAR(50) NOT NULL DEFAULT 'general',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS resource_downloads (
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		resource_id   BIGINT NOT NULL REFERENCES resources(id) ON DELETE CASCADE,
		xp_awarded    BOOLEAN NOT NULL DEFAULT FALSE,
		downloaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (user_id, resource_id)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id          BIGSERIAL PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		trainer_id  BIGINT NOT NULL REFERENCES users(id),
		starts_at   TIMESTAMP WITH TIME ZONE NOT NULL,
		ends_at     TIMESTAMP WITH TIME ZONE NOT NULL,
		capacity    INT NOT NULL DEFAULT 30,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS session_registrations (
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		session_id    BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		attended      BOOLEAN NOT NULL DEFAULT FALSE,
		xp_awarded    BOOLEAN NOT NULL DEFAULT FALSE,
		registered_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (user_id, session_id)
	);

	CREATE TABLE IF NOT EXISTS evaluations (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		course_id     BIGINT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		title         VARCHAR(255) NOT NULL,
		status        VARCHAR(20) NOT NULL DEFAULT 'in-progress',
		score         INT NOT NULL DEFAULT 0,
		max_score     INT NOT NULL DEFAULT 100,
		passing_score INT NOT NULL DEFAULT 70,
		xp_awarded    BOOLEAN NOT NULL DEFAULT FALSE,
		submitted_at  TIMESTAMP WITH TIME ZONE,
		reviewed_at   TIMESTAMP WITH TIME ZONE,
		created_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_user ON evaluations(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_progress_total_xp ON user_progress(total_xp DESC);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return seedBadges(db)
}

// seedBadges installs the default badge catalog. Idempotent — names are
// unique, existing rows win.
func seedBadges(db *sql.DB) error {
	seeds := []struct {
		name, description, icon, category string
		reqType                           string
		reqValue, xpReward                int
	}{
		{"First Steps", "Earn your first 50 XP", "👣", "xp", "xp", 50, 10},
		{"Rising Educator", "Reach 100 total XP", "📈", "xp", "xp", 100, 20},
		{"Knowledge Builder", "Reach 500 total XP", "🏗️", "xp", "xp", 500, 50},
		{"XP Champion", "Reach 2000 total XP", "🏆", "xp", "xp", 2000, 100},
		{"Bug Hunter", "Reach level 2", "🐛", "level", "level", 2, 15},
		{"Digital Creator", "Reach level 3", "🎨", "level", "level", 3, 25},
		{"Code Master", "Reach level 5", "⚡", "level", "level", 5, 75},
		{"Consistent Learner", "3-day activity streak", "📅", "streak", "streak", 3, 15},
		{"Week Warrior", "7-day activity streak", "🗓️", "streak", "streak", 7, 30},
		{"Unstoppable", "30-day activity streak", "🔥", "streak", "streak", 30, 150},
		{"Community Star", "Awarded by a trainer for outstanding participation", "⭐", "community", "action", 0, 40},
		{"Workshop Hero", "Awarded for leading a training workshop", "🦸", "community", "action", 0, 60},
	}

	for _, b := range seeds {
		_, err := db.Exec(
			`INSERT INTO badges (name, description, icon, category, requirement_type, requirement_value, xp_reward)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (name) DO NOTHING`,
			b.name, b.description, b.icon, b.category, b.reqType, b.reqValue, b.xpReward,
		)
		if err != nil {
			return fmt.Errorf("seed badge %q: %w", b.name, err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "user"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateUsername creates a unique username from a name by appending random
// digits. Caller should handle the unique constraint and retry.
func GenerateUsername(name string) string {
	return fmt.Sprintf("%s%04d", generateUsernameBase(name), rng.Intn(10000))
}
