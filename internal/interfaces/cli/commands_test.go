package cli

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	appimpact "github.com/turtacn/CoalTransition-Atlas/internal/application/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/mapview"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
)

func TestPlantsCmd_TableWithFilters(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/plants", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("capacity_min"))
		assert.Equal(t, []string{"India"}, r.URL.Query()["country"])
		assert.Empty(t, r.URL.Query().Get("capacity_max"))
		respond(t, w, http.StatusOK, explorer.PlantsResult{
			Plants: []plant.Plant{{
				Key: "mundra", Name: "Mundra", Country: "India", CapacityMW: 4620, StatusLabel: "Operating",
				UnitDetails: []plant.UnitDetail{{UnitName: "1", CapacityMW: 660}},
			}},
			UnitCount: 9,
		})
	}, "plants", "--capacity-min", "500", "--country", "India")

	require.NoError(t, err)
	assert.Contains(t, out, "Mundra")
	assert.Contains(t, out, "4620")
	assert.Contains(t, out, "1 plants, 9 units, 0 excluded")
}

func TestPlantsCmd_InvalidCaptive(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, "plants", "--captive", "maybe")
	require.Error(t, err)
}

func TestPlantsCmd_InvertedRange(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, "plants", "--capacity-min", "900", "--capacity-max", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity_min exceeds capacity_max")
}

func TestSearchCmd_NoResults(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nowhere", r.URL.Query().Get("q"))
		respond(t, w, http.StatusOK, []plant.PlantUnit{})
	}, "search", "nowhere")
	require.NoError(t, err)
	assert.Contains(t, out, `No plants match "nowhere"`)
}

func TestStatsTopCmd_JSON(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "deaths", r.URL.Query().Get("metric"))
		respond(t, w, http.StatusOK, []explorer.PlantRanking{{Rank: 1, PlantName: "Taichung", Value: 310}})
	}, "-o", "json", "stats", "top", "--metric", "deaths")
	require.NoError(t, err)

	var rows []explorer.PlantRanking
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Taichung", rows[0].PlantName)
}

func TestStatsTopCmd_UnsupportedMetric(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, "stats", "top", "--metric", "happiness")
	require.Error(t, err)
}

func TestStatsSummaryCmd(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, explorer.Summary{
			PlantCount: 2, UnitCount: 5, CapacityMW: 3000,
			Totals: explorer.MetricTotals{impact.MetricCO2: 1234.7},
		})
	}, "stats", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "2 plants, 5 units, 3000 MW")
	assert.Contains(t, out, "1235")
}

func TestProjectsSetCmd(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/projects/p-7/fields/planned_retirement_year", r.URL.Path)
		respond(t, w, http.StatusOK, project.UpdateResult{
			Project: &domain.Record{ID: "p-7"},
			Entry:   &domain.ChangeLogEntry{FieldLabel: "Planned retirement year", OldValue: "2040", NewValue: "2035"},
			Changed: true,
		})
	}, "projects", "set", "p-7", "planned_retirement_year", "2035", "--note", "per ministry plan")
	require.NoError(t, err)
	assert.Contains(t, out, `Planned retirement year: "2040" -> "2035"`)
}

func TestProjectsSetCmd_Unchanged(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, project.UpdateResult{Project: &domain.Record{ID: "p-7"}})
	}, "projects", "set", "p-7", "status", "Operating")
	require.NoError(t, err)
	assert.Contains(t, out, "value unchanged")
}

func TestProjectsLogCmd_Recent(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/changes/recent", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		respond(t, w, http.StatusOK, []*domain.ChangeLogEntry{{
			PlantName: "Vinh Tan", FieldLabel: "Status", NewValue: "Retired", Author: "GH",
			CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}})
	}, "projects", "log", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Vinh Tan")
	assert.Contains(t, out, "2026-03-01 09:00")
}

func TestDealsListCmd_InvalidStage(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, "deals", "list", "--stage", "dreaming")
	require.Error(t, err)
}

func TestDealsShowCmd(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/transactions/t-1":
			respond(t, w, http.StatusOK, transaction.Transaction{
				ID: "t-1", Name: "Suralaya ETM", Stage: transaction.StageDueDiligence, RAG: transaction.RAGAmber, Confidence: 40,
				NextSteps: []transaction.NextStep{{Text: "Sign NDA", Completed: true}},
			})
		case "/api/v1/transactions/t-1/activities":
			respond(t, w, http.StatusOK, []*transaction.Activity{{Type: transaction.ActivityCall, Title: "Kickoff", Author: "GH"}})
		default:
			http.NotFound(w, r)
		}
	}, "deals", "show", "t-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Suralaya ETM")
	assert.Contains(t, out, "AMBER")
	assert.Contains(t, out, "Sign NDA")
	assert.Contains(t, out, "Kickoff")
}

func TestDealsStageCmd(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "negotiation", body["stage"])
		respond(t, w, http.StatusOK, transaction.Transaction{ID: "t-1", Name: "Suralaya ETM", Stage: transaction.StageNegotiation})
	}, "deals", "stage", "t-1", "negotiation")
	require.NoError(t, err)
	assert.Contains(t, out, "Suralaya ETM moved to")
}

func TestDealsActivityCmd_RequiresTitle(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, "deals", "activity", "t-1")
	require.Error(t, err)
}

func TestImpactProjectCmd(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		var req appimpact.ProjectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Suralaya", req.PlantName)
		assert.True(t, req.Enabled)
		require.NotNil(t, req.BaseAnnualValue)
		assert.Equal(t, 100.0, *req.BaseAnnualValue)
		respond(t, w, http.StatusOK, appimpact.Projection{
			PlantName: "Suralaya", Metric: impact.MetricCO2, Base: 100,
			Points: []impact.ProjectionPoint{{Year: 2030, Annual: 100, Cumulative: 100}},
		})
	}, "impact", "project", "--plant", "Suralaya", "--base", "100", "--degradation", "--efficiency-rate", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2030")
}

func TestLayoutCmd(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusOK, mapview.LayoutResult{
			Parent: mapview.ScreenPoint{X: 100, Y: 100}, Radius: 40,
			Points: []mapview.ScreenPoint{{X: 100, Y: 60}},
		})
	}, "layout", "--x", "100", "--y", "100", "--count", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "radius 40.00")
}

//Personal.AI order the ending
