package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbgestor/anamnese-api/internal/dto"
	"github.com/mbgestor/anamnese-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func validIntake() *dto.CreateIntakeRequest {
	return &dto.CreateIntakeRequest{
		Client: dto.ClientInput{
			FullName: "Maria Silva",
			City:     strPtr("Curitiba"),
		},
		Anamnesis: dto.AnamnesisInput{
			HasDiabetes:   boolPtr(true),
			IsPregnant:    boolPtr(false),
			Notes:         strPtr("nenhuma"),
			SignatureCity: strPtr("Curitiba"),
		},
		SignatureDataUrl: "data:image/png;base64,AAA=",
	}
}

func rowCounts(t *testing.T, db *gorm.DB) (clients, anamneses int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.Client{}).Count(&clients).Error)
	require.NoError(t, db.Model(&models.Anamnesis{}).Count(&anamneses).Error)
	return
}

func TestCreateIntakeRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	resp, err := svc.CreateIntake(validIntake())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, resp.ClientID)
	require.NotEqual(t, uuid.Nil, resp.AnamnesisID)

	client, err := svc.GetClient(resp.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", client.FullName)

	anamnesis, err := svc.GetAnamnesis(resp.AnamnesisID)
	require.NoError(t, err)
	require.NotNil(t, anamnesis.HasDiabetes)
	assert.True(t, *anamnesis.HasDiabetes)
	require.NotNil(t, anamnesis.SignatureDataUrl)
	assert.Equal(t, "data:image/png;base64,AAA=", *anamnesis.SignatureDataUrl)
	require.NotNil(t, anamnesis.SignedAt)
	require.NotNil(t, anamnesis.Client)
	assert.Equal(t, "Maria Silva", anamnesis.Client.FullName)
}

func TestCreateIntakeTrimsFullName(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	req := validIntake()
	req.Client.FullName = "  Maria Silva  "
	resp, err := svc.CreateIntake(req)
	require.NoError(t, err)

	client, err := svc.GetClient(resp.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", client.FullName)
}

func TestCreateIntakeRejectsBlankName(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	req := validIntake()
	req.Client.FullName = "   "
	_, err := svc.CreateIntake(req)
	assert.ErrorIs(t, err, ErrFullNameRequired)

	clients, anamneses := rowCounts(t, db)
	assert.Zero(t, clients)
	assert.Zero(t, anamneses)
}

func TestCreateIntakeRejectsMissingSignature(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	req := validIntake()
	req.SignatureDataUrl = ""
	_, err := svc.CreateIntake(req)
	assert.ErrorIs(t, err, ErrSignatureRequired)

	clients, anamneses := rowCounts(t, db)
	assert.Zero(t, clients)
	assert.Zero(t, anamneses)
}

func TestCreateIntakeReusesExistingClient(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	first, err := svc.CreateIntake(validIntake())
	require.NoError(t, err)

	req := validIntake()
	req.ClientID = &first.ClientID
	req.Client.FullName = "Maria Souza"
	req.Client.City = strPtr("Londrina")

	second, err := svc.CreateIntake(req)
	require.NoError(t, err)
	assert.Equal(t, first.ClientID, second.ClientID)
	assert.NotEqual(t, first.AnamnesisID, second.AnamnesisID)

	client, err := svc.GetClient(first.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", client.FullName)
	require.NotNil(t, client.City)
	assert.Equal(t, "Londrina", *client.City)
	assert.True(t, client.UpdatedAt.After(client.CreatedAt))

	clients, anamneses := rowCounts(t, db)
	assert.EqualValues(t, 1, clients)
	assert.EqualValues(t, 2, anamneses)
}

func TestCreateIntakeUnknownClient(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	missing := uuid.New()
	req := validIntake()
	req.ClientID = &missing

	_, err := svc.CreateIntake(req)
	assert.ErrorIs(t, err, ErrClientNotFound)

	clients, anamneses := rowCounts(t, db)
	assert.Zero(t, clients)
	assert.Zero(t, anamneses)
}

func TestGetClientNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	_, err := svc.GetClient(uuid.New())
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func seedClient(t *testing.T, db *gorm.DB, name string) models.Client {
	t.Helper()
	client := models.Client{FullName: name}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func seedAnamnesis(t *testing.T, db *gorm.DB, clientID uuid.UUID, createdAt time.Time) models.Anamnesis {
	t.Helper()
	a := models.Anamnesis{ClientID: clientID, CreatedAt: createdAt}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func TestSearchClientsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	seedClient(t, db, "Maria Silva")
	seedClient(t, db, "Ana MARTINS")
	seedClient(t, db, "Pedro Costa")

	results, err := svc.SearchClients("mar", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Ordered by name.
	assert.Equal(t, "Ana MARTINS", results[0].FullName)
	assert.Equal(t, "Maria Silva", results[1].FullName)
}

func TestSearchClientsTakeClamped(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	for _, name := range []string{"Maria A", "Maria B", "Maria C"} {
		seedClient(t, db, name)
	}

	results, err := svc.SearchClients("maria", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Out-of-range values fall back to sane bounds rather than erroring.
	results, err = svc.SearchClients("maria", 1000)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	results, err = svc.SearchClients("maria", 0)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchClientsAnnotatesLatestAnamnesis(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	client := seedClient(t, db, "Maria Silva")
	old := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	seedAnamnesis(t, db, client.ID, old)
	seedAnamnesis(t, db, client.ID, recent)

	seedClient(t, db, "Pedro Costa")

	results, err := svc.SearchClients("", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := map[string]dto.ClientSearchResult{}
	for _, r := range results {
		byName[r.FullName] = r
	}

	require.NotNil(t, byName["Maria Silva"].LastAnamnesisAt)
	assert.True(t, byName["Maria Silva"].LastAnamnesisAt.Equal(recent))
	assert.Nil(t, byName["Pedro Costa"].LastAnamnesisAt)
}

func TestListAnamnesesNewestFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	client := seedClient(t, db, "Maria Silva")
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		a := seedAnamnesis(t, db, client.ID, base.Add(time.Duration(i)*time.Hour))
		ids = append(ids, a.ID)
	}

	page, err := svc.ListAnamneses("", 0, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, ids[2], page.Items[0].ID)
	assert.Equal(t, ids[1], page.Items[1].ID)
	assert.Equal(t, ids[0], page.Items[2].ID)
	require.NotNil(t, page.Items[0].Client)
	assert.Equal(t, "Maria Silva", page.Items[0].Client.FullName)
}

func TestListAnamnesesPagingAndFilter(t *testing.T) {
	db := openTestDB(t)
	svc := NewIntakeService(db)

	maria := seedClient(t, db, "Maria Silva")
	pedro := seedClient(t, db, "Pedro Costa")
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedAnamnesis(t, db, maria.ID, base.Add(time.Duration(i)*time.Hour))
	}
	seedAnamnesis(t, db, pedro.ID, base.Add(10*time.Hour))

	page, err := svc.ListAnamneses("maria", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Len(t, page.Items, 2)

	page, err = svc.ListAnamneses("pedro", 0, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestClampTake(t *testing.T) {
	assert.Equal(t, defaultTake, clampTake(0))
	assert.Equal(t, defaultTake, clampTake(-3))
	assert.Equal(t, 1, clampTake(1))
	assert.Equal(t, 42, clampTake(42))
	assert.Equal(t, maxTake, clampTake(100))
	assert.Equal(t, maxTake, clampTake(101))
}
