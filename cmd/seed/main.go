package main

import (
	"context"
	"log"
	"math/rand"

	"go.uber.org/zap"

	"github.com/spec-kit/query-triage/internal/config"
	"github.com/spec-kit/query-triage/internal/domain"
	"github.com/spec-kit/query-triage/internal/observability"
	"github.com/spec-kit/query-triage/internal/persistence"
	"github.com/spec-kit/query-triage/internal/repository"
	"github.com/spec-kit/query-triage/internal/service"
)

type sampleQuery struct {
	channel     domain.QueryChannel
	senderName  string
	senderEmail string
	subject     string
	content     string
}

var sampleQueries = []sampleQuery{
	{
		channel:     domain.ChannelEmail,
		senderName:  "John Doe",
		senderEmail: "john@example.com",
		subject:     "Product not working properly",
		content:     "I purchased your product last week and it's not working. This is urgent! I need a refund immediately.",
	},
	{
		channel:    domain.ChannelTwitter,
		senderName: "Jane Smith",
		subject:    "Question about features",
		content:    "How do I use the new feature? Can you help me understand how it works?",
	},
	{
		channel:     domain.ChannelFacebook,
		senderName:  "Mike Johnson",
		senderEmail: "mike@example.com",
		subject:     "Great service!",
		content:     "Just wanted to say thank you for the excellent customer service. You guys are amazing!",
	},
	{
		channel:     domain.ChannelChat,
		senderName:  "Sarah Williams",
		senderEmail: "sarah@example.com",
		subject:     "Technical issue",
		content:     "I'm experiencing a bug in the dashboard. The page crashes when I click on the settings button. This is a critical issue.",
	},
	{
		channel:     domain.ChannelEmail,
		senderName:  "David Brown",
		senderEmail: "david@example.com",
		subject:     "Feature request",
		content:     "Would it be possible to add dark mode? I think many users would appreciate this feature.",
	},
	{
		channel:     domain.ChannelCommunity,
		senderName:  "Emily Davis",
		senderEmail: "emily@example.com",
		subject:     "Integration question",
		content:     "How can I integrate your API with my application? Do you have any documentation?",
	},
	{
		channel:    domain.ChannelInstagram,
		senderName: "Chris Wilson",
		subject:    "Complaint",
		content:    "Very disappointed with the service. The product arrived damaged and customer support was unhelpful.",
	},
	{
		channel:     domain.ChannelEmail,
		senderName:  "Lisa Anderson",
		senderEmail: "lisa@example.com",
		subject:     "Order inquiry",
		content:     "I placed an order 3 days ago but haven't received a confirmation. Can you please check the status?",
	},
}

// Lifecycle states applied to seeded queries so the demo data has spread.
var seedStatuses = []domain.QueryStatus{
	domain.QueryStatusNew,
	domain.QueryStatusNew,
	domain.QueryStatusInProgress,
	domain.QueryStatusInProgress,
	domain.QueryStatusResolved,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pool := pg.PoolHandle()
	queryService := service.NewQueryService(service.QueryDependencies{
		QueryRepo:         repository.NewQueryRepository(pool),
		AssignmentRepo:    repository.NewAssignmentRepository(pool),
		StatusHistoryRepo: repository.NewStatusHistoryRepository(pool),
		TeamRepo:          repository.NewTeamRepository(pool),
	})

	logger.Info("seeding sample queries", zap.Int("count", len(sampleQueries)))

	for i, sample := range sampleQueries {
		input := service.QueryCreateInput{
			Channel:    sample.channel,
			SenderName: sample.senderName,
			Content:    sample.content,
		}
		if sample.senderEmail != "" {
			email := sample.senderEmail
			input.SenderEmail = &email
		}
		if sample.subject != "" {
			subject := sample.subject
			input.Subject = &subject
		}

		query, err := queryService.Create(ctx, input)
		if err != nil {
			logger.Error("failed to seed query", zap.Int("index", i), zap.Error(err))
			continue
		}

		// Walk some queries through the lifecycle so the analytics have data.
		status := seedStatuses[rand.Intn(len(seedStatuses))]
		if status != domain.QueryStatusNew {
			if status == domain.QueryStatusResolved {
				inProgress := domain.QueryStatusInProgress
				if _, err := queryService.Update(ctx, query.ID, service.QueryUpdateInput{Status: &inProgress}); err != nil {
					logger.Error("failed to advance seeded query", zap.String("query_id", query.ID), zap.Error(err))
					continue
				}
			}
			target := status
			if _, err := queryService.Update(ctx, query.ID, service.QueryUpdateInput{Status: &target}); err != nil {
				logger.Error("failed to advance seeded query", zap.String("query_id", query.ID), zap.Error(err))
				continue
			}
		}

		logger.Info("seeded query",
			zap.String("query_id", query.ID),
			zap.Strings("tags", query.Tags),
			zap.String("priority", string(query.Priority)),
			zap.String("status", string(status)))
	}

	logger.Info("seeding complete")
}
