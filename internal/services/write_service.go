// internal/services/write_service.go
package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/enescucu1/auto/internal/models"
	"github.com/enescucu1/auto/internal/repository"
)

// versionPattern is the exact shape of a client-supplied version token:
// a quoted integer of 1 to 3 digits, e.g. `"0"` or `"12"`.
var versionPattern = regexp.MustCompile(`^"(\d{1,3})"$`)

type WriteService struct {
	repo        repository.AutoRepository
	mailService *MailService
}

func NewWriteService(repo repository.AutoRepository, mailService *MailService) *WriteService {
	return &WriteService{
		repo:        repo,
		mailService: mailService,
	}
}

// Create inserts a new Auto with its Modell and Abbildungen in one
// transaction. The chassis number must not exist yet; Version is forced
// to 0 regardless of caller input. Returns the newly assigned id.
func (s *WriteService) Create(ctx context.Context, auto *models.Auto) (uint, error) {
	err := s.repo.WithTransaction(ctx, func(tx repository.AutoRepository) error {
		count, err := tx.CountByFahrgestellnummer(ctx, auto.Fahrgestellnummer)
		if err != nil {
			return err
		}
		if count > 0 {
			return &FahrgestellnummerExistsError{Fahrgestellnummer: auto.Fahrgestellnummer}
		}

		auto.ID = 0
		auto.Version = 0
		auto.NormalizeSchlagwoerter()
		return tx.Insert(ctx, auto)
	})
	if err != nil {
		return 0, err
	}

	logrus.WithField("id", auto.ID).Info("Auto created")

	// Best-effort notification after commit; failure never rolls back
	// the already-committed create.
	if s.mailService != nil {
		modellName := ""
		if auto.Modell != nil {
			modellName = auto.Modell.Modell
		}
		go s.mailService.SendAutoCreated(auto.ID, modellName)
	}

	return auto.ID, nil
}

// AddFile attaches a binary blob to an Auto, replacing any prior blob.
// The content type is sniffed from the bytes; only images and videos are
// accepted.
func (s *WriteService) AddFile(ctx context.Context, autoID uint, data []byte, filename string) (*models.AutoFile, error) {
	var file *models.AutoFile

	err := s.repo.WithTransaction(ctx, func(tx repository.AutoRepository) error {
		auto, err := tx.FindByID(ctx, autoID, false)
		if err != nil {
			return err
		}
		if auto == nil {
			return fmt.Errorf("auto with id %d: %w", autoID, ErrNotFound)
		}

		// At most one file per Auto: replace semantics.
		if err := tx.DeleteFileByAutoID(ctx, autoID); err != nil {
			return err
		}

		contentType := mimetype.Detect(data).String()
		if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
			return fmt.Errorf("content type %s: %w", contentType, ErrUnsupportedFile)
		}

		file = &models.AutoFile{
			AutoID:      autoID,
			Filename:    filename,
			Data:        data,
			ContentType: contentType,
		}
		return tx.InsertFile(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"auto_id":      autoID,
		"filename":     filename,
		"content_type": file.ContentType,
	}).Info("File attached")

	return file, nil
}

// Update applies the caller's attribute changes under the optimistic-lock
// protocol and returns the new version. A claimed version below the
// stored one fails with ErrVersionOutdated; a claimed version at or above
// it is accepted. Modell and Abbildungen are untouched by this path.
func (s *WriteService) Update(ctx context.Context, id uint, auto *models.Auto, versionToken string) (int, error) {
	claimed, err := parseVersionToken(versionToken)
	if err != nil {
		return 0, err
	}

	newVersion := 0
	err = s.repo.WithTransaction(ctx, func(tx repository.AutoRepository) error {
		stored, err := tx.FindByID(ctx, id, false)
		if err != nil {
			return err
		}
		if stored == nil {
			return fmt.Errorf("auto with id %d: %w", id, ErrNotFound)
		}

		if claimed < stored.Version {
			return fmt.Errorf("claimed version %d below stored version %d: %w",
				claimed, stored.Version, ErrVersionOutdated)
		}

		stored.Version++
		stored.Fahrgestellnummer = auto.Fahrgestellnummer
		stored.Kategorie = auto.Kategorie
		stored.Preis = auto.Preis
		stored.Rabatt = auto.Rabatt
		stored.Lieferbar = auto.Lieferbar
		stored.Datum = auto.Datum
		stored.Schlagwoerter = auto.Schlagwoerter
		stored.NormalizeSchlagwoerter()

		if err := tx.Update(ctx, stored); err != nil {
			return err
		}
		newVersion = stored.Version
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{"id": id, "version": newVersion}).Info("Auto updated")
	return newVersion, nil
}

// Delete removes an Auto; Modell, Abbildungen and a possibly attached
// file go with it through the store's referential-integrity rules.
// Deleting a non-existent id is not an error; the return value reports
// whether a row existed.
func (s *WriteService) Delete(ctx context.Context, id uint) (bool, error) {
	auto, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return false, err
	}
	if auto == nil {
		return false, nil
	}

	err = s.repo.WithTransaction(ctx, func(tx repository.AutoRepository) error {
		return tx.Delete(ctx, auto)
	})
	if err != nil {
		return false, err
	}

	logrus.WithField("id", id).Info("Auto deleted")
	return true, nil
}

// parseVersionToken validates the token shape before any store access
// and extracts the claimed version.
func parseVersionToken(token string) (int, error) {
	match := versionPattern.FindStringSubmatch(token)
	if match == nil {
		return 0, fmt.Errorf("token %q: %w", token, ErrVersionInvalid)
	}

	version, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("token %q: %w", token, ErrVersionInvalid)
	}
	return version, nil
}
