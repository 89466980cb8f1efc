package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-smc/pkg/marketdata Provider
//go:generate mockgen -destination=./mock_notifier.go -package=mocks github.com/rxtech-lab/argo-smc/internal/notification Notifier
//go:generate mockgen -destination=./mock_setupstore.go -package=mocks github.com/rxtech-lab/argo-smc/internal/setupstore SetupStore
