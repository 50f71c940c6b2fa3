package main

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "welfare-backend/internal/adapter/http"
	mw "welfare-backend/internal/adapter/middleware"
	"welfare-backend/internal/adapter/repository/mysql"
	"welfare-backend/internal/config"
	loanDomain "welfare-backend/internal/domain/loan"
	memberDomain "welfare-backend/internal/domain/member"
	"welfare-backend/internal/infrastructure/cache"
	"welfare-backend/internal/infrastructure/db"
	guaranteeUC "welfare-backend/internal/usecase/guarantee"
	loanUC "welfare-backend/internal/usecase/loan"
	memberUC "welfare-backend/internal/usecase/member"
	"welfare-backend/pkg/token"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("open mysql")
	}
	if err := gdb.AutoMigrate(
		&memberDomain.Member{},
		&loanDomain.Loan{},
		&loanDomain.Guarantee{},
		&loanDomain.Repayment{},
	); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("open redis")
	}

	tokens := token.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	eval := loanDomain.NewEvaluator(cfg.CreditUnitAmount)

	loanRepo := mysql.NewLoanRepository(gdb)
	memberRepo := mysql.NewMemberRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	loans := loanUC.NewUsecase(loanRepo, uow, eval)
	guarantees := guaranteeUC.NewUsecase(loanRepo, memberRepo, uow, eval)
	members := memberUC.NewUsecase(memberRepo, tokens)

	h := httpadp.NewHandler()
	loanHandler := httpadp.NewLoanHandler(loans)
	guaranteeHandler := httpadp.NewGuaranteeHandler(guarantees)
	memberHandler := httpadp.NewMemberHandler(members)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	e.GET("/health", h.Health)
	e.POST("/auth/register", memberHandler.Register)
	e.POST("/auth/login", memberHandler.Login)

	auth := mw.Auth(tokens)
	idem := mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	g := e.Group("/loans", auth)
	g.GET("/guarantor-requests", guaranteeHandler.PendingRequests)
	g.GET("/guarantee-summary", guaranteeHandler.Summary)
	g.GET("/user/:member_id", loanHandler.ListUserLoans)
	g.GET("/:loan_id", loanHandler.GetLoan)
	g.POST("", loanHandler.CreateLoan, idem)
	g.POST("/:loan_id/guarantor", guaranteeHandler.Invite, idem)
	g.DELETE("/:loan_id/guarantor/:guarantor_id", guaranteeHandler.Remove, idem)
	g.PUT("/:loan_id/guarantor-response", guaranteeHandler.Respond, idem)
	g.PUT("/:loan_id/guarantor-release", guaranteeHandler.Release, idem)
	g.PUT("/:loan_id/submit", loanHandler.Submit, idem)
	g.PUT("/:loan_id/cancel", loanHandler.Cancel, idem)

	admin := mw.AdminOnly()
	mg := e.Group("/members", auth)
	mg.POST("/:member_id/legacy-credits", memberHandler.GrantCredits, admin, idem)

	g.GET("", loanHandler.ListLoans, admin)
	g.PUT("/:loan_id/approve", loanHandler.Approve, admin, idem)
	g.PUT("/:loan_id/reject", loanHandler.Reject, admin, idem)
	g.PUT("/:loan_id/disburse", loanHandler.Disburse, admin, idem)
	g.POST("/:loan_id/repayments", loanHandler.RecordRepayment, admin, idem)

	addr := ":" + cfg.AppPort
	log.Infof("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
