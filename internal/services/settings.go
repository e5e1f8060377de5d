package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"golang.org/x/crypto/pbkdf2"

	"caselog/internal/config"
	"caselog/internal/logger"
	"caselog/internal/store"
)

// ErrPasswordMismatch reports a failed password check on a guarded action.
var ErrPasswordMismatch = errors.New("password does not match")

// ErrUnsupportedLogoFormat reports a logo file outside the accepted formats.
var ErrUnsupportedLogoFormat = errors.New("unsupported logo format: use png, jpg, jpeg, or gif")

const (
	settingPasswordHash = "password_hash"
	settingPasswordSalt = "salt"
	settingLogoPath     = "logo_path"

	// DefaultPassword guards destructive actions until the user sets
	// their own.
	DefaultPassword = "1234"

	pbkdf2Iterations = 100000
	saltBytes        = 16
	keyBytes         = 32
)

var logoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// SettingsService manages the logo, the wipe password, and the data wipe.
type SettingsService struct {
	store  *store.Store
	paths  config.Paths
	logger logger.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(st *store.Store, paths config.Paths, log logger.Logger) *SettingsService {
	return &SettingsService{
		store:  st,
		paths:  paths,
		logger: log,
	}
}

// EnsureDefaults seeds the default password on first run.
func (ss *SettingsService) EnsureDefaults(ctx context.Context) error {
	hash, err := ss.store.Setting(ctx, settingPasswordHash)
	if err != nil {
		return err
	}
	if hash != "" {
		return nil
	}

	if err := ss.setPassword(ctx, DefaultPassword); err != nil {
		return fmt.Errorf("failed to seed default password: %w", err)
	}
	ss.logger.Info("default password set", nil)
	return nil
}

// VerifyPassword checks a password against the stored salted hash. A wrong
// password returns ErrPasswordMismatch.
func (ss *SettingsService) VerifyPassword(ctx context.Context, password string) error {
	storedHash, err := ss.store.Setting(ctx, settingPasswordHash)
	if err != nil {
		return err
	}
	storedSalt, err := ss.store.Setting(ctx, settingPasswordSalt)
	if err != nil {
		return err
	}
	if storedHash == "" || storedSalt == "" {
		ss.logger.Warning("password hash or salt missing from settings", nil)
		return ErrPasswordMismatch
	}

	derived := hashPassword(password, storedSalt)
	if subtle.ConstantTimeCompare([]byte(derived), []byte(storedHash)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// ChangePassword replaces the stored hash and salt after checking the
// current password.
func (ss *SettingsService) ChangePassword(ctx context.Context, current, next string) error {
	if err := ss.VerifyPassword(ctx, current); err != nil {
		return err
	}
	if strings.TrimSpace(next) == "" {
		return fmt.Errorf("new password cannot be empty")
	}

	if err := ss.setPassword(ctx, next); err != nil {
		return err
	}
	ss.logger.Info("password changed", nil)
	return nil
}

// setPassword stores a fresh salt and the derived hash in one transaction so
// the pair can never go out of step.
func (ss *SettingsService) setPassword(ctx context.Context, password string) error {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	return ss.store.SetSettings(ctx, map[string]string{
		settingPasswordHash: hashPassword(password, saltHex),
		settingPasswordSalt: saltHex,
	})
}

// hashPassword derives the storable hash. The hex salt string itself feeds
// the KDF, matching what earlier installations wrote.
func hashPassword(password, saltHex string) string {
	key := pbkdf2.Key([]byte(password), []byte(saltHex), pbkdf2Iterations, keyBytes, sha256.New)
	return hex.EncodeToString(key)
}

// SetLogo stores a logo image chosen in an open dialog.
func (ss *SettingsService) SetLogo(ctx context.Context, reader fyne.URIReadCloser) error {
	defer reader.Close()
	return ss.SetLogoFromReader(ctx, reader.URI().Name(), reader)
}

// SetLogoFromReader copies the image bytes to the app data dir. Only the
// extension is checked; the file content is kept verbatim.
func (ss *SettingsService) SetLogoFromReader(ctx context.Context, name string, r io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !logoExtensions[ext] {
		return ErrUnsupportedLogoFormat
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read logo file: %w", err)
	}
	if err := os.WriteFile(ss.paths.LogoPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save logo: %w", err)
	}
	if err := ss.store.SetSetting(ctx, settingLogoPath, ss.paths.LogoPath); err != nil {
		return fmt.Errorf("failed to record logo path: %w", err)
	}

	ss.logger.Info("logo updated", map[string]interface{}{
		"source": name,
		"bytes":  len(data),
	})
	return nil
}

// LogoPath returns where the logo lives on disk.
func (ss *SettingsService) LogoPath() string {
	return ss.paths.LogoPath
}

// HasLogo reports whether a logo is currently stored.
func (ss *SettingsService) HasLogo() bool {
	_, err := os.Stat(ss.paths.LogoPath)
	return err == nil
}

// WipeData deletes every case record and the logo file after a password
// check. The password itself survives the wipe.
func (ss *SettingsService) WipeData(ctx context.Context, password string) (int64, error) {
	if err := ss.VerifyPassword(ctx, password); err != nil {
		return 0, err
	}

	deleted, err := ss.store.DeleteAllRecords(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.Remove(ss.paths.LogoPath); err != nil && !os.IsNotExist(err) {
		ss.logger.Warning("failed to remove logo during wipe", map[string]interface{}{
			"path":  ss.paths.LogoPath,
			"error": err.Error(),
		})
	}
	if err := ss.store.DeleteSetting(ctx, settingLogoPath); err != nil {
		ss.logger.Warning("failed to clear logo path during wipe", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ss.logger.Warning("all case data wiped", map[string]interface{}{"records": deleted})
	return deleted, nil
}

// ReadLogTail returns up to maxBytes from the end of the application log for
// the in-app log viewer.
func (ss *SettingsService) ReadLogTail(maxBytes int64) (string, error) {
	file, err := os.Open(ss.paths.LogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat log file: %w", err)
	}

	offset := int64(0)
	if info.Size() > maxBytes {
		offset = info.Size() - maxBytes
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to seek log file: %w", err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read log file: %w", err)
	}

	text := string(data)
	if offset > 0 {
		// Drop the partial first line after seeking mid-file.
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			text = text[idx+1:]
		}
	}
	return text, nil
}
