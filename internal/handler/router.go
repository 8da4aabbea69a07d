package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/boardman/internal/metrics"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// HealthChecker はヘルスチェックで使用するストア疎通確認のインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	AuthRecorder      middleware.AuthFailureRecorder
	HTTPRecorder      middleware.HTTPMetricsRecorder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 運用エンドポイント
	HealthChecker   HealthChecker
	MetricsGatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface

	// ボード
	BoardService BoardServiceInterface

	// カード・招待
	CardService   CardServiceInterface
	InviteService InviteServiceInterface

	// タスク・担当者・GitHub添付
	TaskService TaskServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//	→ (認証ルート) Auth → RateLimit(General)
//
// サインアップ/サインインはトークンを持たないため認証ガードの外に置き、
// 代わりにIP単位のレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.HTTPRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPRecorder))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	boardHandler := NewBoardHandler(deps.BoardService)
	cardHandler := NewCardHandler(deps.CardService, deps.InviteService)
	taskHandler := NewTaskHandler(deps.TaskService)

	// --- 認証不要のルート ---

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())

		r.Post("/api/auth/signup", authHandler.Signup)
		r.Post("/api/auth/signin", authHandler.Signin)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, deps.AuthRecorder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/auth/user", authHandler.GetUser)

		// ボード管理
		r.Route("/api/boards", func(r chi.Router) {
			r.Get("/", boardHandler.ListBoards)
			r.Post("/", boardHandler.CreateBoard)

			r.Route("/{boardId}", func(r chi.Router) {
				r.Get("/", boardHandler.GetBoard)
				r.Put("/", boardHandler.UpdateBoard)
				r.Delete("/", boardHandler.DeleteBoard)

				// メンバー招待
				r.Post("/invite", cardHandler.InviteMember)

				// ステータス絞り込み一覧
				r.Post("/cards-by-status", cardHandler.ListCardsByStatus)

				// カード管理
				r.Route("/cards", func(r chi.Router) {
					r.Get("/", cardHandler.ListCards)
					r.Post("/", cardHandler.CreateCard)
					r.Get("/user/{user_id}", cardHandler.ListCardsByUser)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", cardHandler.GetCardDetails)
						r.Put("/", cardHandler.UpdateCard)
						r.Delete("/", cardHandler.DeleteCard)

						r.Post("/invite/accept", cardHandler.RespondToInvite)

						// タスク管理
						r.Route("/tasks", func(r chi.Router) {
							r.Get("/", taskHandler.ListTasks)
							r.Post("/", taskHandler.CreateTask)

							r.Route("/{taskId}", func(r chi.Router) {
								r.Get("/", taskHandler.GetTaskDetails)
								r.Put("/", taskHandler.UpdateTask)
								r.Delete("/", taskHandler.DeleteTask)

								// 担当者
								r.Get("/assign", taskHandler.ListAssignees)
								r.Post("/assign", taskHandler.AssignMember)
								r.Delete("/assign/{memberId}", taskHandler.RemoveAssignee)

								// GitHub添付
								r.Post("/github-attach", taskHandler.AttachGithub)
								r.Get("/github-attachments", taskHandler.ListAttachments)
								r.Delete("/github-attachments/{attachmentId}", taskHandler.DeleteAttachment)
							})
						})
					})
				})
			})
		})

		// リポジトリ概要
		r.Get("/api/repositories/{repositoryId}/github-info", taskHandler.GithubInfo)
	})

	return r
}
