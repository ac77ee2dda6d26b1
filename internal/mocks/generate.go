// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the backend client interface. The mocks are generated using
// go:generate directives and checked in.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockAPI := mocks.NewMockPlanogroupAPI(ctrl)
//	mockAPI.EXPECT().ZonaRak(gomock.Any(), "TOK1", "gondola").Return(result)
package mocks

// Generate mock for PlanogroupAPI interface from internal/backend package.
// This creates MockPlanogroupAPI with methods for all PlanogroupAPI
// interface methods: TableLokPlano, ZonaRak, LineRak, SubmitNearestGroup
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=planogroup_api_mock.go github.com/retailops/plano-ui/internal/backend PlanogroupAPI
