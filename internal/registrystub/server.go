package registrystub

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenPath  = "/token"
	SearchPath = "/IT-search"

	defaultTokenTTL = time.Hour
	maxTokenTTL     = 24 * time.Hour
	maxSearchLimit  = 1000
)

// Claims are carried by the stub's bearer tokens.
type Claims struct {
	Username string   `json:"username"`
	Scopes   []string `json:"scopes"`
	jwt.StandardClaims
}

type Config struct {
	JWTSecret []byte
	// username -> bcrypt hash of the API key
	Users     map[string][]byte
	Companies []workbook.Record
}

// Server fakes the two registry endpoints the exporter uses.
type Server struct {
	jwtSecret []byte
	users     map[string][]byte
	companies []workbook.Record
	now       func() time.Time
}

type tokenRequest struct {
	Scopes []string `json:"scopes"`
	TTL    int      `json:"ttl"`
}

func New(cfg Config) (*Server, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("registry stub: jwt secret is required")
	}
	if len(cfg.Users) == 0 {
		return nil, errors.New("registry stub: at least one user is required")
	}
	return &Server{
		jwtSecret: cfg.JWTSecret,
		users:     cfg.Users,
		companies: cfg.Companies,
		now:       time.Now,
	}, nil
}

// Register mounts the token and search endpoints on router.
func (s *Server) Register(router gin.IRouter) {
	router.POST(TokenPath, s.IssueToken)
	router.GET(SearchPath, s.Search)
}

// IssueToken checks basic auth credentials against the bcrypt hashes and returns a signed token.
func (s *Server) IssueToken(ctx *gin.Context) {
	username, apiKey, ok := ctx.Request.BasicAuth()
	if !ok {
		fail(ctx, http.StatusUnauthorized, "basic authentication required")
		return
	}
	hash, known := s.users[username]
	if !known || bcrypt.CompareHashAndPassword(hash, []byte(apiKey)) != nil {
		zerolog.Ctx(ctx.Request.Context()).Warn().Str("username", username).Msg("registry stub rejected credentials")
		fail(ctx, http.StatusUnauthorized, "invalid username or API key")
		return
	}

	var req tokenRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			fail(ctx, http.StatusBadRequest, "invalid token request body")
			return
		}
	}
	ttl := time.Duration(req.TTL) * time.Second
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if ttl > maxTokenTTL {
		ttl = maxTokenTTL
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Username: username,
		Scopes:   req.Scopes,
		StandardClaims: jwt.StandardClaims{
			Subject:   username,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		zerolog.Ctx(ctx.Request.Context()).Error().Err(err).Msg("registry stub failed to sign token")
		fail(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"token":   token,
		"scopes":  req.Scopes,
		"expire":  expiresAt.Unix(),
		"success": true,
		"message": "",
	})
}

// Search validates the bearer token and returns one page of matching companies.
// atecoCode matches by prefix. Any other query parameter naming a company field must match
// exactly, ignoring case.
func (s *Server) Search(ctx *gin.Context) {
	claims, err := s.authorize(ctx.GetHeader("Authorization"), ctx.Request.URL.Path)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, errScopeDenied) {
			status = http.StatusForbidden
		}
		fail(ctx, status, err.Error())
		return
	}

	skip, err := intParam(ctx, "skip", 0)
	if err != nil || skip < 0 {
		fail(ctx, http.StatusBadRequest, "skip must be a non negative integer")
		return
	}
	limit, err := intParam(ctx, "limit", 100)
	if err != nil || limit < 1 || limit > maxSearchLimit {
		fail(ctx, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxSearchLimit))
		return
	}

	filters := make(map[string]string)
	for key, values := range ctx.Request.URL.Query() {
		if key == "skip" || key == "limit" || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}
	matched := s.filter(filters)

	page := make([]workbook.Record, 0, limit)
	if skip < len(matched) {
		end := skip + limit
		if end > len(matched) {
			end = len(matched)
		}
		page = append(page, matched[skip:end]...)
	}

	zerolog.Ctx(ctx.Request.Context()).Debug().
		Str("username", claims.Username).
		Int("matched", len(matched)).
		Int("returned", len(page)).
		Msg("registry stub search")
	ctx.JSON(http.StatusOK, gin.H{
		"data":    page,
		"success": true,
		"message": "",
	})
}

var errScopeDenied = errors.New("token scopes do not cover this endpoint")

func (s *Server) authorize(header, path string) (*Claims, error) {
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if header == "" || tokenString == header {
		return nil, errors.New("authorization token must be Bearer <token>")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	for _, scope := range claims.Scopes {
		if strings.HasSuffix(scope, path) {
			return claims, nil
		}
	}
	return nil, errScopeDenied
}

func (s *Server) filter(filters map[string]string) []workbook.Record {
	matched := make([]workbook.Record, 0)
	for _, company := range s.companies {
		if matches(company, filters) {
			matched = append(matched, company)
		}
	}
	return matched
}

func matches(company workbook.Record, filters map[string]string) bool {
	for key, want := range filters {
		value, ok := company.Get(key)
		if !ok {
			continue
		}
		got := fmt.Sprint(value)
		if key == "atecoCode" {
			if !strings.HasPrefix(got, want) {
				return false
			}
			continue
		}
		if !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

func intParam(ctx *gin.Context, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func fail(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   status,
	})
}

// HashAPIKey returns the bcrypt hash stored for an API key.
func HashAPIKey(apiKey string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
}

// ParseUsers reads "alice:<bcrypt hash>,bob:<bcrypt hash>" into a user table.
func ParseUsers(raw string) (map[string][]byte, error) {
	users := make(map[string][]byte)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		username, hash, found := strings.Cut(entry, ":")
		if !found || username == "" || hash == "" {
			return nil, fmt.Errorf("registry stub: malformed user entry %q", entry)
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("registry stub: user %s: %w", username, err)
		}
		users[username] = []byte(hash)
	}
	return users, nil
}
