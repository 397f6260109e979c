package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/suPer8Hu/helpdesk/internal/ai"
	"github.com/suPer8Hu/helpdesk/internal/auditlog"
	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/config"
	"github.com/suPer8Hu/helpdesk/internal/conversation"
	"github.com/suPer8Hu/helpdesk/internal/db"
	"github.com/suPer8Hu/helpdesk/internal/httpapi"
	"github.com/suPer8Hu/helpdesk/internal/httpapi/handlers"
	"github.com/suPer8Hu/helpdesk/internal/models"
	"github.com/suPer8Hu/helpdesk/internal/store/rabbitmq"
	"github.com/suPer8Hu/helpdesk/internal/ticket"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err := db.AutoMigrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	if cfg.SeedUsers {
		seedUsers(gdb)
	}

	// session store: redis when configured, in-process otherwise
	var sessions conversation.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		sessions = conversation.NewRedisStore(rdb)
		log.Printf("sessions: redis %s", cfg.RedisAddr)
	} else {
		sessions = conversation.NewMemoryStore()
		log.Printf("sessions: in-memory")
	}

	// audit events: rabbit queue when configured, synchronous workbook writer otherwise
	var events auditlog.Publisher
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Fatalf("rabbitmq connect failed: %v", err)
		}
		defer pub.Close()
		events = pub
		log.Printf("audit events: rabbitmq queue %q", cfg.RabbitQueue)
	} else {
		events = auditlog.NewWriter(cfg.DataDir)
		log.Printf("audit events: direct workbook writes under %s", cfg.DataDir)
	}

	provider := ai.NewGeminiProvider(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	disabled := !provider.Probe(ctx)
	cancel()
	if disabled {
		log.Printf("gemini unavailable, using knowledge-base fallbacks")
	} else {
		log.Printf("gemini ready (model %s)", cfg.GeminiModel)
	}

	tickets := ticket.NewService(gdb, events)
	engine := conversation.NewEngine(sessions, provider, disabled, tickets, auditlog.NewResolvedRecorder(events))

	h := handlers.NewHandler(gdb, cfg, engine, tickets)
	r := httpapi.NewRouter(h)

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// seedUsers provisions the default roster. Existing usernames are left alone,
// so this is safe to run on every start.
func seedUsers(gdb *gorm.DB) {
	type seed struct {
		username, password, email, code, department, designation string
		role                                                     models.Role
	}
	seeds := []seed{
		{"admin", "admin123", "admin@company.com", "ADM001", "IT", "System Administrator", models.RoleAdmin},
		{"tech1", "tech123", "tech1@company.com", "TECH001", "IT Support", "IT Technician", models.RoleTechnician},
		{"tech2", "tech123", "tech2@company.com", "TECH002", "IT Support", "IT Technician", models.RoleTechnician},
		{"tech3", "tech123", "tech3@company.com", "TECH003", "IT Support", "IT Technician", models.RoleTechnician},
		{"tech4", "tech123", "tech4@company.com", "TECH004", "IT Support", "IT Technician", models.RoleTechnician},
		{"tech5", "tech123", "tech5@company.com", "TECH005", "IT Support", "IT Technician", models.RoleTechnician},
		{"emp1", "emp123", "emp1@company.com", "EMP001", "HR", "HR Executive", models.RoleEmployee},
	}

	for _, s := range seeds {
		var cnt int64
		if err := gdb.Model(&models.User{}).Where("username = ?", s.username).Count(&cnt).Error; err != nil {
			log.Fatalf("seed check failed for %s: %v", s.username, err)
		}
		if cnt > 0 {
			continue
		}
		hash, err := auth.HashPassword(s.password)
		if err != nil {
			log.Fatalf("seed hash failed for %s: %v", s.username, err)
		}
		u := models.User{
			Username:     s.username,
			Email:        s.email,
			PasswordHash: hash,
			Role:         s.role,
			Department:   s.department,
			Designation:  s.designation,
			EmployeeCode: s.code,
		}
		if err := gdb.Create(&u).Error; err != nil {
			log.Fatalf("seed create failed for %s: %v", s.username, err)
		}
		log.Printf("seeded user %s (%s)", s.username, s.role)
	}
}
