package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ProblemsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "biomimic_problems_submitted_total",
		Help: "Total number of problems submitted.",
	})

	SolutionsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "biomimic_solutions_generated_total",
		Help: "Total number of solutions created, by author.",
	}, []string{"generated_by"})

	ChatReplies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "biomimic_chat_replies_total",
		Help: "Total number of AI chat replies stored.",
	})

	AIFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "biomimic_ai_failures_total",
		Help: "Total number of failed AI calls, by operation.",
	}, []string{"operation"})

	LikesToggled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "biomimic_likes_toggled_total",
		Help: "Total number of like toggles, by resulting action.",
	}, []string{"action"})

	ExportsUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "biomimic_exports_uploaded_total",
		Help: "Total number of workbook snapshots uploaded to object storage.",
	})
)

func init() {
	prometheus.MustRegister(
		ProblemsSubmitted,
		SolutionsGenerated,
		ChatReplies,
		AIFailures,
		LikesToggled,
		ExportsUploaded,
	)
}
