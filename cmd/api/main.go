package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logger"
	"app/internal/server"
	"app/internal/usecase"
	auth "app/internal/usecase/auth_usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, tokenVersion int, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": userID,
		"tv":  tokenVersion,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if err := logger.Init(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.GoEnv,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.L().Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Merchant{},
		&model.MerchantMember{},
		&model.MerchantSettings{},
		&model.Product{},
		&model.Customer{},
		&model.Invoice{},
		&model.InvoiceLine{},
		&model.AuditLog{},
	); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	merchantRepo := infraRepo.NewMerchantGormRepository(gormDB)
	memberRepo := infraRepo.NewMemberGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	invoiceRepo := infraRepo.NewInvoiceGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, idGen, clock)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	refreshUC := auth.NewRefreshUsecase(userRepo, rtRepo, issuer, idGen, clock, refreshTTL)
	logoutUC := auth.NewLogoutUsecase(userRepo, rtRepo, clock)

	productUC := usecase.NewProductUsecase(productRepo, merchantRepo, memberRepo, idGen, clock, cfg.PageSize, cfg.SuggestLimit)
	customerUC := usecase.NewCustomerUsecase(customerRepo, memberRepo, idGen, clock, cfg.PageSize, cfg.SuggestLimit)
	merchantUC := usecase.NewMerchantUsecase(merchantRepo, memberRepo, auditRepo, idGen, clock)
	teamUC := usecase.NewTeamUsecase(memberRepo, userRepo, auditRepo, idGen, clock)
	invoiceUC := usecase.NewInvoiceUsecase(invoiceRepo, productRepo, customerRepo, memberRepo, productUC, idGen, clock)

	//設定変更で一覧エンジンの閾値が変わるので、セッション破棄先を登録
	merchantUC.RegisterInvalidator(productUC)
	merchantUC.RegisterInvalidator(customerUC)

	//Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(registerUC, loginUC, refreshUC, logoutUC, refreshTTL),
		Merchant: handler.NewMerchantHandler(merchantUC),
		Team:     handler.NewTeamHandler(teamUC),
		Product:  handler.NewProductHandler(productUC),
		Customer: handler.NewCustomerHandler(customerUC),
		Invoice:  handler.NewInvoiceHandler(invoiceUC),
	}

	//Server起動
	e := server.New(cfg, handlers, userRepo)
	if err := server.Start(e, cfg.Port); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
