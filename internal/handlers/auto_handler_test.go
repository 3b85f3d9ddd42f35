// internal/handlers/auto_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/enescucu1/auto/internal/models"
	"github.com/enescucu1/auto/internal/services"
	"github.com/enescucu1/auto/internal/utils"
)

// stubService backs both ports with canned data. Find applies the same
// whitelist rule as the real read service.
type stubService struct {
	autos map[uint]*models.Auto
	files map[uint]*models.AutoFile

	createdID  uint
	createErr  error
	updateErr  error
	newVersion int
	lastFilter map[string]any
}

var stubFilterKeys = map[string]bool{
	services.FilterFahrgestellnummer: true,
	services.FilterKategorie:         true,
	services.FilterPreis:             true,
	services.FilterRabatt:            true,
	services.FilterLieferbar:         true,
	services.FilterDatum:             true,
	services.FilterModell:            true,
	services.FilterSchlagwort:        true,
}

func (s *stubService) FindByID(ctx context.Context, id uint, withAbbildungen bool) (*models.Auto, error) {
	auto, ok := s.autos[id]
	if !ok {
		return nil, fmt.Errorf("auto with id %d: %w", id, services.ErrNotFound)
	}
	return auto, nil
}

func (s *stubService) FindFileByAutoID(ctx context.Context, id uint) (*models.AutoFile, bool, error) {
	file, ok := s.files[id]
	return file, ok, nil
}

func (s *stubService) Find(ctx context.Context, filter map[string]any, pageable utils.Pageable) ([]models.Auto, int64, error) {
	s.lastFilter = filter
	for key := range filter {
		if !stubFilterKeys[key] {
			return nil, 0, fmt.Errorf("invalid filter key %q: %w", key, services.ErrNotFound)
		}
	}
	if len(s.autos) == 0 {
		return nil, 0, fmt.Errorf("no autos: %w", services.ErrNotFound)
	}
	var autos []models.Auto
	for _, auto := range s.autos {
		autos = append(autos, *auto)
	}
	return autos, int64(len(autos)), nil
}

func (s *stubService) Count(ctx context.Context) (int64, error) {
	return int64(len(s.autos)), nil
}

func (s *stubService) Create(ctx context.Context, auto *models.Auto) (uint, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	return s.createdID, nil
}

func (s *stubService) AddFile(ctx context.Context, autoID uint, data []byte, filename string) (*models.AutoFile, error) {
	if _, ok := s.autos[autoID]; !ok {
		return nil, fmt.Errorf("auto with id %d: %w", autoID, services.ErrNotFound)
	}
	file := &models.AutoFile{AutoID: autoID, Filename: filename, Data: data, ContentType: "image/png"}
	s.files[autoID] = file
	return file, nil
}

func (s *stubService) Update(ctx context.Context, id uint, auto *models.Auto, versionToken string) (int, error) {
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	return s.newVersion, nil
}

func (s *stubService) Delete(ctx context.Context, id uint) (bool, error) {
	_, ok := s.autos[id]
	delete(s.autos, id)
	return ok, nil
}

type AutoHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	stub   *stubService
}

func (suite *AutoHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.stub = &stubService{
		autos: map[uint]*models.Auto{
			1: {
				ID:                1,
				Version:           3,
				Fahrgestellnummer: "WAUZZZ4G7EN123456",
				Kategorie:         models.KategorieSUV,
				Preis:             decimal.RequireFromString("44000.00"),
				Schlagwoerter:     pq.StringArray{"SPORT"},
				Modell:            &models.Modell{Modell: "Q5"},
			},
		},
		files: map[uint]*models.AutoFile{
			1: {AutoID: 1, Filename: "auto.png", Data: []byte("png"), ContentType: "image/png"},
		},
		createdID:  7,
		newVersion: 4,
	}

	readHandler := NewAutoReadHandler(suite.stub)
	writeHandler := NewAutoWriteHandler(suite.stub, 10<<20)

	suite.router = gin.New()
	rest := suite.router.Group("/rest")
	{
		rest.GET("", readHandler.Search)
		rest.GET("/:id", readHandler.GetByID)
		rest.GET("/file/:id", readHandler.GetFile)
		rest.POST("", writeHandler.Create)
		rest.POST("/:id", writeHandler.UploadFile)
		rest.PUT("/:id", writeHandler.Update)
		rest.DELETE("/:id", writeHandler.Delete)
	}
}

func (suite *AutoHandlerTestSuite) TestGetByID() {
	req, _ := http.NewRequest("GET", "/rest/1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), `"3"`, w.Header().Get("ETag"))

	var auto models.Auto
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &auto))
	assert.Equal(suite.T(), "WAUZZZ4G7EN123456", auto.Fahrgestellnummer)
}

func (suite *AutoHandlerTestSuite) TestGetByIDNotModified() {
	req, _ := http.NewRequest("GET", "/rest/1", nil)
	req.Header.Set("If-None-Match", `"3"`)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotModified, w.Code)
}

func (suite *AutoHandlerTestSuite) TestGetByIDNotFound() {
	req, _ := http.NewRequest("GET", "/rest/99", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *AutoHandlerTestSuite) TestGetByIDInvalidID() {
	req, _ := http.NewRequest("GET", "/rest/abc", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AutoHandlerTestSuite) TestSearch() {
	req, _ := http.NewRequest("GET", "/rest?modell=Q5", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Content       []models.Auto `json:"content"`
		TotalElements int64         `json:"totalElements"`
	}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Content, 1)
	assert.EqualValues(suite.T(), 1, response.TotalElements)
}

func (suite *AutoHandlerTestSuite) TestSearchUnknownFilterKey() {
	req, _ := http.NewRequest("GET", "/rest?farbe=rot", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	// Unknown keys reach the service and fail the whitelist there.
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Contains(suite.T(), suite.stub.lastFilter, "farbe")
}

func (suite *AutoHandlerTestSuite) TestSearchReservedKeysAreNotFilters() {
	req, _ := http.NewRequest("GET", "/rest?page=0&size=5&modell=Q5", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), map[string]any{"modell": "Q5"}, suite.stub.lastFilter)
}

func (suite *AutoHandlerTestSuite) TestSearchOnlyCount() {
	req, _ := http.NewRequest("GET", "/rest?only=count", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]int64
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.EqualValues(suite.T(), 1, response["count"])
}

func (suite *AutoHandlerTestSuite) TestGetFile() {
	req, _ := http.NewRequest("GET", "/rest/file/1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "image/png", w.Header().Get("Content-Type"))
	assert.Equal(suite.T(), "png", w.Body.String())
}

func (suite *AutoHandlerTestSuite) TestGetFileNotFound() {
	req, _ := http.NewRequest("GET", "/rest/file/2", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *AutoHandlerTestSuite) TestCreate() {
	body := map[string]interface{}{
		"fahrgestellnummer": "WDD12345678901234",
		"kategorie":         "KOMBI",
		"preis":             32000.50,
		"rabatt":            5,
		"lieferbar":         true,
		"modell":            map[string]string{"modell": "C-Klasse"},
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/rest", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	assert.Equal(suite.T(), "/rest/7", w.Header().Get("Location"))
}

func (suite *AutoHandlerTestSuite) TestCreateValidationFailure() {
	body := map[string]interface{}{
		"fahrgestellnummer": "x",
		"kategorie":         "RAKETE",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/rest", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AutoHandlerTestSuite) TestCreateConflict() {
	suite.stub.createErr = &services.FahrgestellnummerExistsError{Fahrgestellnummer: "WDD12345678901234"}

	body := map[string]interface{}{
		"fahrgestellnummer": "WDD12345678901234",
		"kategorie":         "KOMBI",
		"preis":             32000.50,
		"modell":            map[string]string{"modell": "C-Klasse"},
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/rest", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

func (suite *AutoHandlerTestSuite) updateBody() *bytes.Buffer {
	body := map[string]interface{}{
		"fahrgestellnummer": "WAUZZZ4G7EN123456",
		"kategorie":         "SUV",
		"preis":             41000,
	}
	jsonData, _ := json.Marshal(body)
	return bytes.NewBuffer(jsonData)
}

func (suite *AutoHandlerTestSuite) TestUpdateWithoutIfMatch() {
	req, _ := http.NewRequest("PUT", "/rest/1", suite.updateBody())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusPreconditionRequired, w.Code)
}

func (suite *AutoHandlerTestSuite) TestUpdate() {
	req, _ := http.NewRequest("PUT", "/rest/1", suite.updateBody())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("If-Match", `"3"`)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.Equal(suite.T(), `"4"`, w.Header().Get("ETag"))
}

func (suite *AutoHandlerTestSuite) TestUpdateStaleVersion() {
	suite.stub.updateErr = fmt.Errorf("claimed version 2 below stored version 3: %w", services.ErrVersionOutdated)

	req, _ := http.NewRequest("PUT", "/rest/1", suite.updateBody())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("If-Match", `"2"`)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusPreconditionFailed, w.Code)
}

func (suite *AutoHandlerTestSuite) TestDelete() {
	req, _ := http.NewRequest("DELETE", "/rest/1", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	// Idempotent: deleting again is still 204.
	req, _ = http.NewRequest("DELETE", "/rest/1", nil)
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

func (suite *AutoHandlerTestSuite) TestUploadFile() {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "auto.png")
	part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	writer.Close()

	req, _ := http.NewRequest("POST", "/rest/1", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	assert.Equal(suite.T(), "/rest/file/1", w.Header().Get("Location"))
}

func (suite *AutoHandlerTestSuite) TestUploadFileOversize() {
	// Same routes, but with a 16-byte upload limit.
	writeHandler := NewAutoWriteHandler(suite.stub, 16)
	router := gin.New()
	router.POST("/rest/:id", writeHandler.UploadFile)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "auto.png")
	part.Write(bytes.Repeat([]byte{0x89}, 32))
	writer.Close()

	req, _ := http.NewRequest("POST", "/rest/1", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "exceeds maximum")
}

func (suite *AutoHandlerTestSuite) TestUploadFileUnknownAuto() {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "auto.png")
	part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	writer.Close()

	req, _ := http.NewRequest("POST", "/rest/99", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestAutoHandlerSuite(t *testing.T) {
	suite.Run(t, new(AutoHandlerTestSuite))
}
