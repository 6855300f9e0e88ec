// Package schema defines the database schema.
//
// Tables are created with CREATE TABLE IF NOT EXISTS on startup, so adding a
// table is safe. Changing a column needs a separate ALTER statement.
package schema

// TableDefinitions contains all the SQL statements to create the database tables
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS campaigns (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		subject VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		current_revision_id UUID,
		created_by VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_updated_at ON campaigns (updated_at DESC) WHERE deleted_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS campaign_revisions (
		id UUID PRIMARY KEY,
		campaign_id UUID NOT NULL,
		content JSONB NOT NULL,
		rendered_html TEXT NOT NULL,
		checksum VARCHAR(64) NOT NULL,
		created_by VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_campaign_revisions_campaign ON campaign_revisions (campaign_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id UUID PRIMARY KEY,
		filename VARCHAR(255) NOT NULL,
		content_type VARCHAR(100) NOT NULL,
		size BIGINT NOT NULL,
		url TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		created_by VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"campaigns",
	"campaign_revisions",
	"assets",
}
