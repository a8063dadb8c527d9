package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"gorm.io/gorm"

	"github.com/pearlapp/pearl-backend/internal/data/repos"
	"github.com/pearlapp/pearl-backend/internal/domain/user"
	"github.com/pearlapp/pearl-backend/internal/platform/envutil"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

const avatarSize = 256

// AvatarService renders an initials avatar for new users and writes it under
// the media dir the router serves statically.
type AvatarService interface {
	CreateUserAvatar(ctx context.Context, tx *gorm.DB, u *user.User) error
}

type avatarService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	mediaDir string
	palette  []color.NRGBA
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, userRepo repos.UserRepo) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	mediaDir := envutil.GetEnv("MEDIA_DIR", "./media", serviceLog)
	if err := os.MkdirAll(filepath.Join(mediaDir, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	face, err := loadFontFace(serviceLog)
	if err != nil {
		return nil, err
	}

	return &avatarService{
		log:      serviceLog,
		userRepo: userRepo,
		mediaDir: mediaDir,
		palette: []color.NRGBA{
			{R: 0x5b, G: 0x4b, B: 0x8a, A: 0xff},
			{R: 0x2e, G: 0x6f, B: 0x95, A: 0xff},
			{R: 0xc0, G: 0x5c, B: 0x7e, A: 0xff},
			{R: 0x3a, G: 0x7c, B: 0x5f, A: 0xff},
			{R: 0xa8, G: 0x6a, B: 0x3d, A: 0xff},
			{R: 0x51, G: 0x55, B: 0x70, A: 0xff},
		},
		fontFace: face,
	}, nil
}

func loadFontFace(log *logger.Logger) (font.Face, error) {
	path := envutil.GetEnv("AVATAR_FONT_PATH", "", log)
	if path == "" {
		// No font configured; the packaged bitmap face is good enough for
		// two-letter initials.
		return basicfont.Face7x13, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read avatar font: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: 96}), nil
}

func (s *avatarService) CreateUserAvatar(ctx context.Context, tx *gorm.DB, u *user.User) error {
	if u == nil {
		return fmt.Errorf("nil user")
	}

	dc := gg.NewContext(avatarSize, avatarSize)
	bg := s.palette[colorIndex(u.Email, len(s.palette))]
	dc.SetColor(bg)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Fill()

	dc.SetFontFace(s.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials(u.FullName), avatarSize/2, avatarSize/2, 0.5, 0.5)

	rel := filepath.Join("avatars", u.ID.String()+".png")
	abs := filepath.Join(s.mediaDir, rel)
	if err := dc.SavePNG(abs); err != nil {
		return fmt.Errorf("save avatar: %w", err)
	}

	url := "/media/" + filepath.ToSlash(rel)
	if err := s.userRepo.UpdateAvatarURL(ctx, tx, u.ID, url); err != nil {
		return fmt.Errorf("store avatar url: %w", err)
	}
	u.AvatarURL = url
	return nil
}

func initials(fullName string) string {
	parts := strings.Fields(strings.TrimSpace(fullName))
	switch len(parts) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(parts[0][:1])
	default:
		return strings.ToUpper(parts[0][:1] + parts[len(parts)-1][:1])
	}
}

func colorIndex(seed string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(seed)))
	return int(h.Sum32()) % n
}
