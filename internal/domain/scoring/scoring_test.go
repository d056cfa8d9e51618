package scoring_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/internal/domain/scoring"
	"github.com/okian/scoreboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func event(slug string, date types.Date, results ...model.EventResult) model.Event {
	return model.Event{Slug: slug, Name: "CTF " + slug, Date: date, URL: "https://ctf.example/" + slug, Results: results}
}

func result(team string, rank int, points float64) model.EventResult {
	return model.EventResult{Team: team, Rank: rank, Points: points}
}

func byName(teams []model.TeamRecord) map[string]model.TeamRecord {
	out := make(map[string]model.TeamRecord, len(teams))
	for _, t := range teams {
		out[t.Name] = t
	}
	return out
}

func TestAggregate_TwoEventScenario(t *testing.T) {
	Convey("Given event A with two teams and event B with one team", t, func() {
		events := []model.Event{
			event("b", types.NewDate(2024, time.March, 1), result("TeamX", 1, 300)),
			event("a", types.NewDate(2024, time.January, 1), result("TeamY", 2, 100), result("TeamX", 1, 200)),
		}

		Convey("When aggregating", func() {
			teams := scoring.Aggregate(events, nil)
			got := byName(teams)

			Convey("Then relative scores should follow internal placement", func() {
				x := got["TeamX"]
				So(x.Results, ShouldHaveLength, 2)
				So(x.Results[0].EventSlug, ShouldEqual, "b")
				So(x.Results[0].RelativeScore, ShouldEqual, 0.0)
				So(x.Results[1].EventSlug, ShouldEqual, "a")
				So(x.Results[1].InternalRank, ShouldEqual, 1)
				So(x.Results[1].TotalInternalTeams, ShouldEqual, 2)
				So(x.Results[1].RelativeScore, ShouldEqual, 0.5)

				y := got["TeamY"]
				So(y.Results[0].InternalRank, ShouldEqual, 2)
				So(y.Results[0].RelativeScore, ShouldEqual, 0.0)
			})

			Convey("And the statistics should be derived from the history", func() {
				x := got["TeamX"]
				So(x.OverallScore, ShouldEqual, 0.25)
				So(x.TotalPoints, ShouldEqual, 500.0)
				So(x.BestRank, ShouldEqual, 1)
				So(x.CTFCount, ShouldEqual, 2)
				So(x.AvgRank, ShouldEqual, 1.0)

				y := got["TeamY"]
				So(y.OverallScore, ShouldEqual, 0.0)
				So(y.AvgRank, ShouldEqual, 2.0)
			})

			Convey("And the leaderboard should rank TeamX first", func() {
				board := scoring.BuildLeaderboard(teams)
				So(board, ShouldHaveLength, 2)
				So(board[0].Name, ShouldEqual, "TeamX")
				So(board[0].Rank, ShouldEqual, 1)
				So(board[1].Name, ShouldEqual, "TeamY")
				So(board[1].Rank, ShouldEqual, 2)
			})
		})
	})
}

func TestAggregate_InternalPlacement(t *testing.T) {
	Convey("Given an event whose ranks are global contest ranks", t, func() {
		ev := event("global", types.NewDate(2024, time.May, 5),
			result("C", 120, 10), result("A", 7, 900), result("B", 33, 400), result("D", 512, 1))

		Convey("When aggregating", func() {
			got := byName(scoring.Aggregate([]model.Event{ev}, nil))

			Convey("Then internal ranks should be 1..n in rank order", func() {
				So(got["A"].Results[0].InternalRank, ShouldEqual, 1)
				So(got["B"].Results[0].InternalRank, ShouldEqual, 2)
				So(got["C"].Results[0].InternalRank, ShouldEqual, 3)
				So(got["D"].Results[0].InternalRank, ShouldEqual, 4)
			})

			Convey("And the top team should score 1 - 1/n", func() {
				So(got["A"].Results[0].RelativeScore, ShouldEqual, 0.75)
				So(got["D"].Results[0].RelativeScore, ShouldEqual, 0.0)
			})

			Convey("And global ranks should be kept as given", func() {
				So(got["C"].BestRank, ShouldEqual, 120)
				So(got["C"].Results[0].Rank, ShouldEqual, 120)
			})
		})
	})

	Convey("Given an event with duplicate ranks", t, func() {
		ev := event("tie", types.NewDate(2024, time.May, 5),
			result("First", 3, 10), result("Second", 3, 10), result("Top", 1, 50))

		Convey("When aggregating", func() {
			got := byName(scoring.Aggregate([]model.Event{ev}, nil))

			Convey("Then duplicates should keep source order and distinct internal ranks", func() {
				So(got["Top"].Results[0].InternalRank, ShouldEqual, 1)
				So(got["First"].Results[0].InternalRank, ShouldEqual, 2)
				So(got["Second"].Results[0].InternalRank, ShouldEqual, 3)
				So(got["First"].Results[0].Rank, ShouldEqual, 3)
				So(got["Second"].Results[0].Rank, ShouldEqual, 3)
			})
		})
	})

	Convey("Given an event with a single result", t, func() {
		ev := event("solo", types.NewDate(2024, time.May, 5), result("Alone", 1, 1000))

		Convey("Then that team's relative score should be zero", func() {
			got := scoring.Aggregate([]model.Event{ev}, nil)
			So(got, ShouldHaveLength, 1)
			So(got[0].Results[0].RelativeScore, ShouldEqual, 0.0)
			So(got[0].OverallScore, ShouldEqual, 0.0)
		})
	})

	Convey("Given the input events", t, func() {
		ev := event("keep", types.NewDate(2024, time.May, 5), result("B", 2, 1), result("A", 1, 1))

		Convey("Then aggregation should not reorder the caller's results", func() {
			scoring.Aggregate([]model.Event{ev}, nil)
			So(ev.Results[0].Team, ShouldEqual, "B")
		})
	})
}

func TestAggregate_Registry(t *testing.T) {
	Convey("Given a registry with ids, members and an idle team", t, func() {
		reg := model.Registry{
			"Team Alpha": {Name: "Team Alpha", Members: []string{"ann", "bob"}},
			"Bravo":      {Name: "Bravo", ID: "bravo-six"},
			"Idle Team":  {Name: "Idle Team", ID: "idle"},
		}
		events := []model.Event{
			event("e1", types.NewDate(2024, time.February, 2), result("Team Alpha", 1, 10), result("Bravo", 2, 5), result("Loose  Cannons", 3, 1)),
		}

		Convey("When aggregating", func() {
			teams := scoring.Aggregate(events, reg)
			got := byName(teams)

			Convey("Then a team without an explicit id should get the slug", func() {
				So(got["Team Alpha"].ID, ShouldEqual, "team-alpha")
				So(got["Team Alpha"].Members, ShouldResemble, []string{"ann", "bob"})
			})

			Convey("And an explicit id should win", func() {
				So(got["Bravo"].ID, ShouldEqual, "bravo-six")
				So(got["Bravo"].Members, ShouldResemble, []string{})
			})

			Convey("And unregistered teams should be slugified with an empty roster", func() {
				So(got["Loose  Cannons"].ID, ShouldEqual, "loose-cannons")
				So(got["Loose  Cannons"].Members, ShouldNotBeNil)
				So(got["Loose  Cannons"].Members, ShouldBeEmpty)
			})

			Convey("And registry-only teams should not appear", func() {
				So(got, ShouldNotContainKey, "Idle Team")
				So(teams, ShouldHaveLength, 3)
				for _, e := range scoring.BuildLeaderboard(teams) {
					So(e.ID, ShouldNotEqual, "idle")
				}
			})

			Convey("And mutating the output roster should not touch the registry", func() {
				got["Team Alpha"].Members[0] = "zed"
				So(reg["Team Alpha"].Members[0], ShouldEqual, "ann")
			})
		})
	})
}

func TestAggregate_Invariants(t *testing.T) {
	Convey("Given many events with overlapping teams", t, func() {
		var events []model.Event
		for e := 0; e < 12; e++ {
			var results []model.EventResult
			for tm := 0; tm <= e%5+1; tm++ {
				results = append(results, result(fmt.Sprintf("team-%d", (tm+e)%7), (tm*37+e*11)%50+1, float64(tm*e)))
			}
			events = append(events, event(fmt.Sprintf("ev-%02d", e), types.NewDate(2023, time.Month(e%12+1), e+1), results...))
		}

		Convey("When aggregating", func() {
			teams := scoring.Aggregate(events, nil)

			Convey("Then every record should satisfy its invariants", func() {
				for _, tm := range teams {
					So(tm.CTFCount, ShouldEqual, len(tm.Results))
					minRank := tm.Results[0].Rank
					for i, h := range tm.Results {
						if h.Rank < minRank {
							minRank = h.Rank
						}
						if i > 0 {
							So(h.Date.After(tm.Results[i-1].Date), ShouldBeFalse)
						}
					}
					So(tm.BestRank, ShouldEqual, minRank)
					So(tm.OverallScore, ShouldBeGreaterThanOrEqualTo, 0)
					So(tm.OverallScore, ShouldBeLessThan, 1)
				}
			})

			Convey("And the leaderboard ranks should be exactly 1..N", func() {
				board := scoring.BuildLeaderboard(teams)
				So(board, ShouldHaveLength, len(teams))
				for i, e := range board {
					So(e.Rank, ShouldEqual, i+1)
					if i > 0 {
						So(e.OverallScore, ShouldBeLessThanOrEqualTo, board[i-1].OverallScore)
					}
				}
			})

			Convey("And a second run should produce identical output", func() {
				So(scoring.Aggregate(events, nil), ShouldResemble, teams)
			})
		})
	})
}

func TestAggregate_Rounding(t *testing.T) {
	Convey("Given a team with three placements", t, func() {
		events := []model.Event{
			event("a", types.NewDate(2024, time.January, 3), result("T", 1, 0), result("U", 2, 0), result("V", 3, 0)),
			event("b", types.NewDate(2024, time.January, 2), result("U", 1, 0), result("T", 2, 0), result("V", 3, 0)),
			event("c", types.NewDate(2024, time.January, 1), result("U", 1, 0), result("V", 2, 0), result("T", 4, 0)),
		}

		Convey("When aggregating", func() {
			got := byName(scoring.Aggregate(events, nil))

			Convey("Then avgRank should be rounded to one decimal", func() {
				// (1 + 2 + 4) / 3 = 2.333...
				So(got["T"].AvgRank, ShouldEqual, 2.3)
			})

			Convey("And overallScore should be rounded to three decimals", func() {
				// (2/3 + 1/3 + 0) / 3 = 0.333...
				So(got["T"].OverallScore, ShouldEqual, 0.333)
			})
		})
	})
}

func TestAggregate_ScoreStaysBelowOne(t *testing.T) {
	Convey("Given an event with 3000 tracked teams", t, func() {
		results := make([]model.EventResult, 0, 3000)
		for i := 1; i <= 3000; i++ {
			results = append(results, result(fmt.Sprintf("team-%04d", i), i, 0))
		}
		events := []model.Event{event("huge", types.NewDate(2024, time.May, 1), results...)}

		Convey("When aggregating", func() {
			got := byName(scoring.Aggregate(events, nil))

			Convey("Then a mean that rounds up to 1 should be truncated to 0.999", func() {
				// 1 - 1/3000 = 0.99967
				So(got["team-0001"].OverallScore, ShouldEqual, 0.999)
				So(got["team-0002"].OverallScore, ShouldEqual, 0.999)
				So(got["team-0003"].OverallScore, ShouldEqual, 0.999)
				So(got["team-3000"].OverallScore, ShouldEqual, 0)
			})

			Convey("And no team should reach 1", func() {
				for _, tm := range got {
					So(tm.OverallScore, ShouldBeLessThan, 1)
				}
			})
		})
	})
}

func TestBuildLeaderboard_Ties(t *testing.T) {
	Convey("Given teams with equal overall scores", t, func() {
		teams := []model.TeamRecord{
			{ID: "late", Name: "Late", OverallScore: 0.5},
			{ID: "top", Name: "Top", OverallScore: 0.9},
			{ID: "early", Name: "Early", OverallScore: 0.5},
		}

		Convey("When building the leaderboard", func() {
			board := scoring.BuildLeaderboard(teams)

			Convey("Then ties should keep input order and receive consecutive ranks", func() {
				So(board[0].ID, ShouldEqual, "top")
				So(board[1].ID, ShouldEqual, "late")
				So(board[1].Rank, ShouldEqual, 2)
				So(board[2].ID, ShouldEqual, "early")
				So(board[2].Rank, ShouldEqual, 3)
			})

			Convey("And the input should be left untouched", func() {
				So(teams[0].ID, ShouldEqual, "late")
			})
		})
	})

	Convey("Given no teams", t, func() {
		Convey("Then the leaderboard should be empty, not nil", func() {
			board := scoring.BuildLeaderboard(nil)
			So(board, ShouldNotBeNil)
			So(board, ShouldBeEmpty)
		})
	})
}

func TestSlugify(t *testing.T) {
	Convey("Given team names", t, func() {
		cases := map[string]string{
			"Team Alpha":        "team-alpha",
			"Loose   Cannons":   "loose-cannons",
			"tab\tand\nnewline": "tab-and-newline",
			" padded ":          "-padded-",
			"ÜBER Hackers":      "über-hackers",
			"already-slugged":   "already-slugged",
			"vertical\x0Btab":   "vertical-tab",
		}

		Convey("Then each should lower-case and hyphenate whitespace runs", func() {
			for in, want := range cases {
				So(scoring.Slugify(in), ShouldEqual, want)
			}
		})
	})
}
