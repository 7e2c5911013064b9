package sqlite

// Schema DDL. Statements are idempotent so that an existing database is
// reopened without loss.
const (
	createMeals = `CREATE TABLE IF NOT EXISTS meals (
    meal_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    meal_name TEXT NOT NULL,
    calories INTEGER NOT NULL,
    points INTEGER NOT NULL DEFAULT 0,
    mood TEXT,
    notes TEXT,
    photo_url TEXT,
    calorie_method TEXT NOT NULL DEFAULT 'manual',
    calorie_confidence REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    payload TEXT
);`

	createProfile = `CREATE TABLE IF NOT EXISTS profile (
    profile_id INTEGER PRIMARY KEY CHECK (profile_id = 1),
    height REAL,
    weight REAL,
    updated_at TEXT NOT NULL
);`

	createUsers = `CREATE TABLE IF NOT EXISTS users (
    email TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxMealsCreated = `CREATE INDEX IF NOT EXISTS idx_meals_created ON meals(created_at);`
	idxMealsUser    = `CREATE INDEX IF NOT EXISTS idx_meals_user ON meals(user_id);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createMeals,
	createProfile,
	createUsers,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxMealsCreated,
	idxMealsUser,
}
