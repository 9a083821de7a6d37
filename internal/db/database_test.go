package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ikkim/license-backend/config"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "applications.db"),
	}
	require.NoError(t, Initialize(cfg))
	t.Cleanup(func() { Close() })

	require.NoError(t, Migrate())
	assert.True(t, GetDB().Migrator().HasTable(&model.Application{}))
	assert.True(t, GetDB().Migrator().HasTable(&model.FileMetadata{}))
}

func TestInitialize_UnsupportedDriver(t *testing.T) {
	err := Initialize(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestCascadeDeleteFiles(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(testDB) })

	app := &model.Application{
		ID:              "7d1c3e4e-9f55-4c1c-8d7b-2f1b0a6e1a01",
		ReferenceNumber: "LIC-20240101120000-1234",
		AccountType:     model.AccountTypeIndividual,
		Status:          model.StatusDraft,
	}
	require.NoError(t, testDB.Create(app).Error)
	require.NoError(t, testDB.Create(&model.FileMetadata{
		ID:            "0b8c59a6-3a58-4e38-9b0e-9e3f3b0f7a11",
		ApplicationID: app.ID,
		FileName:      "id.pdf",
		StoragePath:   "0b8c59a6.pdf",
		ContentType:   "application/pdf",
		FileSize:      10,
		UploadedAt:    time.Now(),
	}).Error)

	require.NoError(t, testDB.Delete(app).Error)

	var count int64
	testDB.Model(&model.FileMetadata{}).Count(&count)
	assert.Zero(t, count)
	require.NoError(t, TruncateAllTables(testDB))
}
