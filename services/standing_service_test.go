package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/poker-dream-api/models"
	"github.com/google/uuid"
)

type standingFixture struct {
	mock          sqlmock.Sqlmock
	tournaments   *fakeTournamentRepo
	players       *fakePlayerRepo
	standings     *fakeStandingRepo
	notifier      *recordingNotifier
	standingSvc   StandingService
	playerSvc     PlayerService
	tournamentSvc TournamentService
}

func newStandingFixture(t *testing.T) *standingFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	f := &standingFixture{
		mock:        mock,
		tournaments: newFakeTournamentRepo(),
		players:     newFakePlayerRepo(),
		standings:   newFakeStandingRepo(),
		notifier:    &recordingNotifier{},
	}
	f.tournaments.cascade = f.standings
	f.standings.tournaments = f.tournaments
	f.standingSvc = NewStandingService(db, f.standings, f.tournaments, f.players, f.notifier, discardLogger())
	f.playerSvc = NewPlayerService(f.players, f.standings)
	f.tournamentSvc = NewTournamentService(db, f.tournaments, f.standings, nil, discardLogger())
	return f
}

func (f *standingFixture) tournament(t *testing.T, name string) string {
	t.Helper()
	tr := &models.Tournament{Name: name, Status: models.StatusLive, TotalEntries: 3}
	if err := f.tournaments.Create(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	return tr.ID
}

func (f *standingFixture) tournamentOn(t *testing.T, name string, start time.Time) string {
	t.Helper()
	tr := &models.Tournament{Name: name, Status: models.StatusCompleted, StartDate: &start}
	if err := f.tournaments.Create(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	return tr.ID
}

func (f *standingFixture) finish(t *testing.T, tournamentID, playerID string, rank int) {
	t.Helper()
	st := &models.Standing{TournamentID: tournamentID, PlayerID: playerID, Rank: rank}
	if err := f.standings.Create(context.Background(), st); err != nil {
		t.Fatal(err)
	}
}

func (f *standingFixture) player(t *testing.T, name string) string {
	t.Helper()
	p := &models.Player{Name: name}
	if err := f.players.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p.ID
}

func TestTestCupScenario(t *testing.T) {
	f := newStandingFixture(t)
	ctx := context.Background()

	cup := f.tournament(t, "Test Cup")
	ann := f.player(t, "Ann")
	bob := f.player(t, "Bob")
	f.player(t, "Cat")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	saved, err := f.standingSvc.BulkReplace(ctx, BulkStandingsInput{
		TournamentID: cup,
		Standings: []BulkStandingEntry{
			{PlayerID: bob, Rank: ptr(2), Chips: ptr(int64(250_000)), IsSurvivor: true},
			{PlayerID: ann, Rank: ptr(1), Chips: ptr(int64(4_000_000_000)), IsSurvivor: true, PrizeAmount: ptr(1000.0)},
		},
	})
	if err != nil {
		t.Fatalf("BulkReplace: %v", err)
	}
	if len(saved) != 2 || saved[0].PlayerID != ann {
		t.Fatalf("saved = %+v, want Ann first", saved)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}

	if f.notifier.calls[cup] != 1 {
		t.Errorf("notifier calls = %d, want 1", f.notifier.calls[cup])
	}
	if f.notifier.last.PlayersRemaining != 2 || f.notifier.last.Standings[0].LiveRank != 1 {
		t.Errorf("live view = %+v", f.notifier.last)
	}

	board, err := f.playerSvc.Leaderboard(ctx, LeaderboardQuery{})
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if board.Pagination.Total != 2 {
		t.Fatalf("leaderboard total = %d, want 2 (Cat has no results)", board.Pagination.Total)
	}
	first, second := board.Data[0], board.Data[1]
	if first.Name != "Ann" || first.Points != 100 || first.Wins != 1 || first.TotalEarnings != 1000 {
		t.Errorf("first = %+v", first)
	}
	if second.Name != "Bob" || second.Points != 75 || second.Rank != 2 {
		t.Errorf("second = %+v", second)
	}
}

func TestBulkReplaceUnknownPlayerRollsBack(t *testing.T) {
	f := newStandingFixture(t)
	ctx := context.Background()

	cup := f.tournament(t, "Test Cup")
	ann := f.player(t, "Ann")
	if err := f.standings.Create(ctx, &models.Standing{TournamentID: cup, PlayerID: ann, Rank: 1}); err != nil {
		t.Fatal(err)
	}
	writesBefore := f.standings.writes

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.standingSvc.BulkReplace(ctx, BulkStandingsInput{
		TournamentID: cup,
		Standings: []BulkStandingEntry{
			{PlayerID: ann, Rank: ptr(1), Chips: ptr(int64(10))},
			{PlayerID: uuid.NewString(), Rank: ptr(2), Chips: ptr(int64(5))},
		},
	})
	if !errors.Is(err, ErrPlayersNotFound) {
		t.Fatalf("err = %v, want ErrPlayersNotFound", err)
	}
	if !errors.Is(err, ErrBadRequest) {
		t.Error("ErrPlayersNotFound should be a bad request")
	}
	if f.standings.writes != writesBefore {
		t.Error("standings were written despite the unknown player")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
	if f.notifier.calls[cup] != 0 {
		t.Error("failed replace must not broadcast")
	}
}

func TestBulkReplaceInsertFailureRollsBack(t *testing.T) {
	f := newStandingFixture(t)
	cup := f.tournament(t, "Test Cup")
	ann := f.player(t, "Ann")
	f.standings.insertErr = errors.New("connection reset")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.standingSvc.BulkReplace(context.Background(), BulkStandingsInput{
		TournamentID: cup,
		Standings:    []BulkStandingEntry{{PlayerID: ann, Rank: ptr(1), Chips: ptr(int64(10))}},
	})
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want internal error", err)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestBulkReplaceValidation(t *testing.T) {
	f := newStandingFixture(t)
	cup := f.tournament(t, "Test Cup")
	ann := f.player(t, "Ann")

	_, err := f.standingSvc.BulkReplace(context.Background(), BulkStandingsInput{
		TournamentID: cup,
		Standings: []BulkStandingEntry{
			{PlayerID: ann, Rank: ptr(1), Chips: ptr(int64(10))},
			{PlayerID: ann, Rank: ptr(0), Chips: ptr(int64(-1))},
		},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, field := range []string{"standings[1].playerId", "standings[1].rank", "standings[1].chips"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing field error %q in %v", field, ve.Fields)
		}
	}
}

func TestBulkReplaceUnknownTournament(t *testing.T) {
	f := newStandingFixture(t)
	_, err := f.standingSvc.BulkReplace(context.Background(), BulkStandingsInput{TournamentID: uuid.NewString()})
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("err = %v, want ErrTournamentNotFound", err)
	}
}

func TestCreateStandingDuplicate(t *testing.T) {
	f := newStandingFixture(t)
	ctx := context.Background()
	cup := f.tournament(t, "Test Cup")
	ann := f.player(t, "Ann")

	in := StandingInput{TournamentID: cup, PlayerID: ann, Rank: ptr(1), Chips: ptr(int64(100)), IsSurvivor: ptr(true)}
	if _, err := f.standingSvc.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.standingSvc.Create(ctx, in); !errors.Is(err, ErrStandingExists) {
		t.Fatalf("second Create = %v, want ErrStandingExists", err)
	}
	if f.notifier.calls[cup] != 1 {
		t.Errorf("notifier calls = %d, want 1", f.notifier.calls[cup])
	}
}

func TestCreateStandingMissingPlayer(t *testing.T) {
	f := newStandingFixture(t)
	cup := f.tournament(t, "Test Cup")
	_, err := f.standingSvc.Create(context.Background(), StandingInput{
		TournamentID: cup, PlayerID: uuid.NewString(), Rank: ptr(1), Chips: ptr(int64(0)),
	})
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestByTournamentMalformedID(t *testing.T) {
	f := newStandingFixture(t)
	got, err := f.standingSvc.ByTournament(context.Background(), "not-a-uuid", 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("ByTournament = %v, %v; want empty list", got, err)
	}
}

func TestDeleteTournamentRemovesStandings(t *testing.T) {
	f := newStandingFixture(t)
	ctx := context.Background()

	cup := f.tournament(t, "Test Cup")
	ann := f.player(t, "Ann")
	bob := f.player(t, "Bob")

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	saved, err := f.standingSvc.BulkReplace(ctx, BulkStandingsInput{
		TournamentID: cup,
		Standings: []BulkStandingEntry{
			{PlayerID: ann, Rank: ptr(1), Chips: ptr(int64(0))},
			{PlayerID: bob, Rank: ptr(2), Chips: ptr(int64(0))},
		},
	})
	if err != nil || len(saved) != 2 {
		t.Fatalf("BulkReplace = %d standings, %v", len(saved), err)
	}

	if err := f.tournamentSvc.Delete(ctx, cup); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	after, err := f.standingSvc.ByTournament(ctx, cup, 0)
	if err != nil {
		t.Fatalf("ByTournament after delete: %v", err)
	}
	if after == nil || len(after) != 0 {
		t.Errorf("ByTournament after delete = %#v, want empty slice", after)
	}
	if _, err := f.standingSvc.FindByID(ctx, saved[0].ID); !errors.Is(err, ErrStandingNotFound) {
		t.Errorf("FindByID after delete err = %v, want ErrStandingNotFound", err)
	}
	if err := f.tournamentSvc.Delete(ctx, cup); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("second Delete err = %v, want ErrTournamentNotFound", err)
	}
}

func TestLeaderboardYear(t *testing.T) {
	f := newStandingFixture(t)
	ctx := context.Background()

	spring23 := f.tournamentOn(t, "Spring Open", time.Date(2023, time.April, 2, 18, 0, 0, 0, time.UTC))
	newYear24 := f.tournamentOn(t, "New Year Cup", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	winter24 := f.tournamentOn(t, "Winter Series", time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC))
	ann := f.player(t, "Ann")
	bob := f.player(t, "Bob")

	f.finish(t, spring23, ann, 1)
	f.finish(t, spring23, bob, 2)
	f.finish(t, newYear24, bob, 1)
	f.finish(t, winter24, bob, 3)

	year := 2024
	season, err := f.playerSvc.Leaderboard(ctx, LeaderboardQuery{Year: &year})
	if err != nil {
		t.Fatalf("Leaderboard(2024): %v", err)
	}
	if len(season.Data) != 1 {
		t.Fatalf("Leaderboard(2024) = %+v, want only Bob", season.Data)
	}
	if e := season.Data[0]; e.ID != bob || e.Points != 160 || e.TournamentsPlayed != 2 || e.Wins != 1 {
		t.Errorf("Bob 2024 = %+v, want 160 points from 2 tournaments", e)
	}

	allTime, err := f.playerSvc.Leaderboard(ctx, LeaderboardQuery{})
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(allTime.Data) != 2 || allTime.Data[0].ID != bob || allTime.Data[0].Points != 235 || allTime.Data[1].Points != 100 {
		t.Errorf("all-time leaderboard = %+v", allTime.Data)
	}

	for _, bad := range []int{1969, 10000} {
		y := bad
		var ve *ValidationError
		if _, err := f.playerSvc.Leaderboard(ctx, LeaderboardQuery{Year: &y}); !errors.As(err, &ve) || ve.Fields["year"] == "" {
			t.Errorf("Leaderboard(year=%d) err = %v, want a year validation error", bad, err)
		}
	}
}

func TestSeasonBounds(t *testing.T) {
	from, to, err := seasonBounds(nil)
	if err != nil || from != nil || to != nil {
		t.Errorf("seasonBounds(nil) = %v, %v, %v", from, to, err)
	}

	year := 2024
	from, to, err = seasonBounds(&year)
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("seasonBounds(2024) = [%s, %s)", from, to)
	}
}

func TestUpdateTournamentEndDateChecksStoredStart(t *testing.T) {
	f := newStandingFixture(t)
	ctx := context.Background()
	start := time.Date(2024, time.May, 10, 18, 0, 0, 0, time.UTC)
	id := f.tournamentOn(t, "May Main Event", start)

	early := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	var ve *ValidationError
	if _, err := f.tournamentSvc.Update(ctx, id, TournamentInput{EndDate: &early}); !errors.As(err, &ve) || ve.Fields["endDate"] == "" {
		t.Fatalf("Update(endDate before stored start) err = %v, want endDate validation error", err)
	}
	stored, err := f.tournaments.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if stored.EndDate != nil {
		t.Errorf("rejected update was stored: endDate = %v", stored.EndDate)
	}

	late := time.Date(2024, time.May, 12, 0, 0, 0, 0, time.UTC)
	updated, err := f.tournamentSvc.Update(ctx, id, TournamentInput{EndDate: &late})
	if err != nil {
		t.Fatalf("Update(endDate after start): %v", err)
	}
	if !updated.EndDate.Equal(late) || !updated.StartDate.Equal(start) {
		t.Errorf("updated dates = %v .. %v", updated.StartDate, updated.EndDate)
	}
}

func TestLeaderboardIgnoresStandingsOfUnknownPlayers(t *testing.T) {
	f := newStandingFixture(t)
	ctx := context.Background()

	cup := f.tournamentOn(t, "Autumn Cup", time.Date(2024, time.October, 5, 18, 0, 0, 0, time.UTC))
	ann := f.player(t, "Ann")
	f.finish(t, cup, ann, 2)
	// Результат есть, а игрока в списке нет.
	f.finish(t, cup, uuid.NewString(), 1)

	board, err := f.playerSvc.Leaderboard(ctx, LeaderboardQuery{})
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if board.Pagination.Total != 1 || len(board.Data) != 1 {
		t.Fatalf("leaderboard = %+v, want only Ann", board)
	}
	if e := board.Data[0]; e.ID != ann || e.Points != 75 || e.Rank != 1 {
		t.Errorf("Ann = %+v, want rank 1 with 75 points", e)
	}
}
