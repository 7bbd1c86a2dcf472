package stance

import (
	"testing"

	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/tuning"
)

func TestEvaluateWarState_Buckets(t *testing.T) {
	tune := tuning.Defaults().War
	cases := []struct {
		my, enemy int
		want      model.WarState
	}{
		{10, 90, model.WarStateNearlyDefeated},
		{30, 70, model.WarStateDefensive},
		{50, 50, model.WarStateStalemate},
		{65, 35, model.WarStateOffensive},
		{90, 10, model.WarStateNearlyWon},
	}
	for _, c := range cases {
		in := WarStateInput{AtWar: true, Front: Front{MyHome: c.my, EnemyHome: c.enemy}}
		if got := EvaluateWarState(in, tune); got != c.want {
			t.Fatalf("%d vs %d: got %s want %s", c.my, c.enemy, got, c.want)
		}
	}
	if got := EvaluateWarState(WarStateInput{}, tune); got != model.WarStateNone {
		t.Fatalf("peace: got %s", got)
	}
}

func TestEvaluateWarState_Overrides(t *testing.T) {
	tune := tuning.Defaults().War
	calm := WarStateInput{AtWar: true, Front: Front{MyHome: 1, EnemyForeign: 1}}
	if got := EvaluateWarState(calm, tune); got != model.WarStateCalm {
		t.Fatalf("low contact: got %s", got)
	}
	calm.EasyTarget, calm.Idle = true, true
	if got := EvaluateWarState(calm, tune); got != model.WarStateOffensive {
		t.Fatalf("idle vs easy target: got %s", got)
	}
	empty := WarStateInput{AtWar: true}
	zero := tune
	zero.CalmForceThreshold = 0
	if got := EvaluateWarState(empty, zero); got != model.WarStateCalm {
		t.Fatalf("no forces at all: got %s", got)
	}
	// losing abroad but holding home two to one
	in := WarStateInput{AtWar: true, Front: Front{MyHome: 10, EnemyHome: 5, EnemyForeign: 60}}
	if got := EvaluateWarState(in, tune); got != model.WarStateStalemate {
		t.Fatalf("outnumbering at home: got %s", got)
	}
}

func TestEvaluateProjection(t *testing.T) {
	tune := tuning.Defaults().War
	even := ProjectionInput{AtWar: true, MilitaryRatio: 100, EconomicRatio: 100, MyScore: 100, TheirScore: 100, Target: model.TargetAverage}
	if got := EvaluateProjection(even, tune); got != model.ProjectionStalemate {
		t.Fatalf("even war: got %s (score %d)", got, WarScore(even, tune))
	}
	strong := even
	strong.MilitaryRatio, strong.MyScore = 200, 200
	if got := EvaluateProjection(strong, tune); got != model.ProjectionVeryGood {
		t.Fatalf("strong: got %s", got)
	}
	strong.Target = model.TargetBad
	if got := EvaluateProjection(strong, tune); got != model.ProjectionStalemate {
		t.Fatalf("bad target caps at stalemate: got %s", got)
	}
	weak := even
	weak.MilitaryRatio, weak.TheirScore, weak.Suffered = 20, 300, model.WarDamageCrippled
	if got := EvaluateProjection(weak, tune); got != model.ProjectionDestruction {
		t.Fatalf("weak: got %s (score %d)", got, WarScore(weak, tune))
	}
	long := even
	long.TurnsAtWar = 300
	if got := WarScore(long, tune); got != -tune.DurationPenaltyCap {
		t.Fatalf("duration penalty=%d want %d", got, -tune.DurationPenaltyCap)
	}
}

func TestWantsPeace_LockedIntoWar(t *testing.T) {
	tune := tuning.Defaults().War
	in := PeaceInput{AtWar: true, TurnsLockedIntoWar: 3, WarGoal: model.WarGoalPeace, WantPeaceCounter: 99, TurnsAtWar: 50}
	if WantsPeace(in, tune) {
		t.Fatalf("locked into war but wants peace")
	}
	in.TurnsLockedIntoWar = 0
	if !WantsPeace(in, tune) {
		t.Fatalf("unlocked, goal peace, but no peace")
	}
}

func TestNextWantPeaceCounter(t *testing.T) {
	c := 0
	for i := 0; i < 3; i++ {
		c = NextWantPeaceCounter(c, true, model.ProjectionDefeat)
	}
	if c != 3 {
		t.Fatalf("counter=%d", c)
	}
	if NextWantPeaceCounter(c, true, model.ProjectionGood) != 0 {
		t.Fatalf("counter should reset when winning")
	}
}

func TestPeaceWillingness_Ordered(t *testing.T) {
	projections := []model.WarProjection{model.ProjectionDestruction, model.ProjectionDefeat, model.ProjectionStalemate, model.ProjectionGood, model.ProjectionVeryGood}
	prevOffer, prevAccept := model.PeaceUnconditionalSurrender, model.PeaceNone
	for _, p := range projections {
		offer := PeaceWillingToOffer(p, model.WarStateStalemate)
		accept := PeaceWillingToAccept(p, model.WarStateStalemate)
		if prevOffer.Less(offer) {
			t.Fatalf("%s: offer %s grew from %s", p, offer, prevOffer)
		}
		if accept.Less(prevAccept) {
			t.Fatalf("%s: accept %s shrank from %s", p, accept, prevAccept)
		}
		prevOffer, prevAccept = offer, accept
	}
}

func TestSelectApproach_FixedRNGIsStable(t *testing.T) {
	in := ApproachInput{
		Current:     model.ApproachNeutral,
		Personality: model.DefaultPersonality(),
		Opinion:     model.OpinionNeutral,
		Target:      model.TargetAverage,
		Proximity:   model.ProximityClose,
	}
	a := SelectApproach(in, 3, 15, model.FixedRNG{})
	b := SelectApproach(in, 3, 15, model.FixedRNG{})
	if a.Approach != b.Approach || len(a.Ranking) != len(model.MajorApproaches) {
		t.Fatalf("unstable result %v vs %v", a, b)
	}
	if a.Approach != model.ApproachNeutral {
		t.Fatalf("neutral input picked %s", a.Approach)
	}
	for i := 1; i < len(a.Ranking); i++ {
		if a.Ranking[i].Weight > a.Ranking[i-1].Weight {
			t.Fatalf("ranking not sorted: %v", a.Ranking)
		}
	}
}

func TestSelectApproach_Friendship(t *testing.T) {
	in := ApproachInput{
		Current:     model.ApproachNeutral,
		Personality: model.DefaultPersonality(),
		Opinion:     model.OpinionAlly,
		Target:      model.TargetSoft,
		Friends:     true,
		Proximity:   model.ProximityNeighbors,
	}
	if got := SelectApproach(in, 3, 0, nil).Approach; got != model.ApproachFriendly {
		t.Fatalf("friends picked %s", got)
	}
}

func TestSelectApproach_WarFace(t *testing.T) {
	in := ApproachInput{
		Current:     model.ApproachWar,
		Personality: model.DefaultPersonality(),
		Opinion:     model.OpinionUnforgivable,
		Target:      model.TargetSoft,
		Proximity:   model.ProximityNeighbors,
	}
	res := SelectApproach(in, 3, 0, nil)
	if res.Approach != model.ApproachWar {
		t.Fatalf("picked %s", res.Approach)
	}
	if res.WarFace != model.WarFaceHostile {
		t.Fatalf("war face %s want hostile", res.WarFace)
	}
}

func TestSelectApproach_CoopWarLockWins(t *testing.T) {
	in := ApproachInput{
		Current:       model.ApproachFriendly,
		Personality:   model.DefaultPersonality(),
		Opinion:       model.OpinionAlly,
		Friends:       true,
		CoopWarLocked: true,
	}
	if got := SelectApproach(in, 3, 0, nil).Approach; got != model.ApproachWar {
		t.Fatalf("coop war lock picked %s", got)
	}
}

func TestOpinion(t *testing.T) {
	tune := tuning.Defaults().Opinion
	w, o := EvaluateOpinion(OpinionInput{}, tune)
	if w != 0 || o != model.OpinionNeutral {
		t.Fatalf("empty: %d %s", w, o)
	}
	_, o = EvaluateOpinion(OpinionInput{Land: model.DisputeFierce, Victory: model.DisputeFierce, Warmonger: model.ThreatCritical, Denounced: true}, tune)
	if o != model.OpinionUnforgivable {
		t.Fatalf("worst case: %s", o)
	}
	_, o = EvaluateOpinion(OpinionInput{Friends: true}, tune)
	if o != model.OpinionFavorable {
		t.Fatalf("friends: %s", o)
	}
	_, o = EvaluateOpinion(OpinionInput{Land: model.DisputeFierce, AtWar: true, Teammate: true}, tune)
	if o != model.OpinionAlly {
		t.Fatalf("teammate: %s", o)
	}
	if got := OpinionFromWeight(-200, false, tune); got != model.OpinionAlly {
		t.Fatalf("-200: %s", got)
	}
	if got := OpinionFromWeight(-100, false, tune); got != model.OpinionFriend {
		t.Fatalf("-100: %s", got)
	}
}

func TestDisputes(t *testing.T) {
	if got := LandDispute(LandInput{Proximity: model.ProximityNeighbors, Contested: 3, Boldness: 5}); got != model.DisputeFierce {
		t.Fatalf("land: %s", got)
	}
	if got := LandDispute(LandInput{Proximity: model.ProximityDistant, Contested: 9}); got != model.DisputeNone {
		t.Fatalf("distant land: %s", got)
	}
	if got := WonderDispute(0, 5, 10); got != model.DisputeNone {
		t.Fatalf("wonder without wonders: %s", got)
	}
	if got := VictoryDispute(100, 95, model.EraModern); got != model.DisputeFierce {
		t.Fatalf("victory: %s", got)
	}
	if got := VictoryDispute(100, 95, model.EraAncient); got != model.DisputeNone {
		t.Fatalf("early victory: %s", got)
	}
}

func TestStrengthAndTarget(t *testing.T) {
	if got := CompareStrength(100, 300); got != model.StrengthImmense {
		t.Fatalf("strength: %s", got)
	}
	if got := CompareStrength(0, 0); got != model.StrengthPathetic {
		t.Fatalf("zero strength: %s", got)
	}
	if got := EvaluateTarget(TargetInput{MyStrength: 300, TheirStrength: 100, Proximity: model.ProximityNeighbors, TheirCities: 2}); got != model.TargetSoft {
		t.Fatalf("target: %s", got)
	}
	if got := EvaluateTarget(TargetInput{MyStrength: 300, TheirStrength: 100, Proximity: model.ProximityClose}); got != model.TargetImpossible {
		t.Fatalf("cityless target: %s", got)
	}
	p := tuning.Defaults().Proximity
	if got := ProximityOf(-1, p); got != model.ProximityNone {
		t.Fatalf("proximity: %s", got)
	}
	if got := ProximityOf(9, p); got != model.ProximityClose {
		t.Fatalf("proximity 9: %s", got)
	}
}
