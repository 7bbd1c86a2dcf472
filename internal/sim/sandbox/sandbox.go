// Package sandbox is a small in-memory world used by the server binary and by tests.
// It implements worldview.View and worldview.Mutator; it knows nothing about diplomacy.
package sandbox

import (
	"fmt"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"statecraft.ai/internal/sim/model"
	"statecraft.ai/internal/sim/worldview"
)

type Unit struct {
	At       model.Point `yaml:"at" json:"at"`
	Strength int         `yaml:"strength" json:"strength"`
}

type CityConfig struct {
	Name       string      `yaml:"name" json:"name"`
	Location   model.Point `yaml:"location" json:"location"`
	Population int         `yaml:"population" json:"population"`
	Wonders    int         `yaml:"wonders" json:"wonders"`
	Capital    bool        `yaml:"capital" json:"capital"`
}

type PlayerConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Human       bool              `yaml:"human" json:"human"`
	Minor       bool              `yaml:"minor" json:"minor"`
	Team        int               `yaml:"team" json:"team"`
	Era         model.Era         `yaml:"era" json:"era"`
	Techs       []string          `yaml:"techs" json:"techs"`
	Civics      []string          `yaml:"civics" json:"civics"`
	Personality model.Personality `yaml:"personality" json:"personality"`

	Gold      int `yaml:"gold" json:"gold"`
	Income    int `yaml:"income" json:"income"`
	Economy   int `yaml:"economy" json:"economy"`
	Score     int `yaml:"score" json:"score"`
	Wonders   int `yaml:"wonders" json:"wonders"`
	Warmonger int `yaml:"warmonger" json:"warmonger"`

	Resources map[model.ResourceType]int `yaml:"resources" json:"resources"`
	Cities    []CityConfig               `yaml:"cities" json:"cities"`
	Units     []Unit                     `yaml:"units" json:"units"`
}

type Config struct {
	Seed          int64                `yaml:"seed" json:"seed"`
	Width         int                  `yaml:"width" json:"width"`
	Height        int                  `yaml:"height" json:"height"`
	MeetRadius    int                  `yaml:"meet_radius" json:"meet_radius"`
	WorldCongress bool                 `yaml:"world_congress" json:"world_congress"`
	Resources     []model.ResourceInfo `yaml:"resources" json:"resources"`
	Players       []PlayerConfig       `yaml:"players" json:"players"`
}

type player struct {
	id    model.PlayerID
	cfg   PlayerConfig
	alive bool

	techs  map[string]bool
	civics map[string]bool

	gold     int
	research int
	units    []Unit
}

type flowKey struct {
	from, to model.PlayerID
	res      model.ResourceType
}

type World struct {
	turn    int
	width   int
	height  int
	meetR   int
	players []*player

	cities    map[model.CityID]*worldview.CityInfo
	cityOrder []model.CityID
	cityNames map[model.CityID]string

	met       map[model.Pair]bool
	war       map[model.Pair]bool
	valueLost map[model.Pair]int

	resources map[model.ResourceType]model.ResourceInfo
	flows     map[flowKey]int

	congress bool
	noise    opensimplex.Noise
	rng      model.RNG
}

func New(cfg Config, rng model.RNG) (*World, error) {
	if len(cfg.Players) < 2 {
		return nil, fmt.Errorf("sandbox: need at least 2 players, got %d", len(cfg.Players))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("sandbox: bad map size %dx%d", cfg.Width, cfg.Height)
	}
	if rng == nil {
		rng = model.NewRNG(cfg.Seed)
	}
	w := &World{
		width:     cfg.Width,
		height:    cfg.Height,
		meetR:     cfg.MeetRadius,
		cities:    map[model.CityID]*worldview.CityInfo{},
		cityNames: map[model.CityID]string{},
		met:       map[model.Pair]bool{},
		war:       map[model.Pair]bool{},
		valueLost: map[model.Pair]int{},
		resources: map[model.ResourceType]model.ResourceInfo{},
		flows:     map[flowKey]int{},
		congress:  cfg.WorldCongress,
		noise:     opensimplex.NewNormalized(cfg.Seed),
		rng:       rng,
	}
	for _, r := range cfg.Resources {
		if r.Type == "" {
			return nil, fmt.Errorf("sandbox: resource without type")
		}
		w.resources[r.Type] = r
	}
	for i, pc := range cfg.Players {
		p := &player{
			id:     model.PlayerID(i),
			cfg:    pc,
			alive:  true,
			techs:  map[string]bool{},
			civics: map[string]bool{},
			gold:   pc.Gold,
			units:  append([]Unit(nil), pc.Units...),
		}
		if p.cfg.Personality == (model.Personality{}) {
			p.cfg.Personality = model.DefaultPersonality()
		}
		for _, t := range pc.Techs {
			p.techs[t] = true
		}
		for _, c := range pc.Civics {
			p.civics[c] = true
		}
		for r := range pc.Resources {
			if _, ok := w.resources[r]; !ok {
				return nil, fmt.Errorf("sandbox: player %q owns unknown resource %q", pc.Name, r)
			}
		}
		w.players = append(w.players, p)
		for _, cc := range pc.Cities {
			id := model.CityID(len(w.cityOrder))
			w.cities[id] = &worldview.CityInfo{
				ID:         id,
				Owner:      p.id,
				Location:   cc.Location,
				Population: cc.Population,
				IsCapital:  cc.Capital,
				Wonders:    cc.Wonders,
			}
			w.cityNames[id] = cc.Name
			w.cityOrder = append(w.cityOrder, id)
		}
	}
	return w, nil
}

func (w *World) player(p model.PlayerID) *player {
	model.Require(p >= 0 && int(p) < len(w.players), "sandbox.player", "unknown player %s", p)
	return w.players[p]
}

func pairKey(a, b model.PlayerID) model.Pair {
	if a > b {
		a, b = b, a
	}
	return model.Pair{Owner: a, Subject: b}
}

func (w *World) CurrentTurn() int { return w.turn }

func (w *World) PlayerIDs() []model.PlayerID {
	out := make([]model.PlayerID, len(w.players))
	for i := range w.players {
		out[i] = model.PlayerID(i)
	}
	return out
}

func (w *World) Name(p model.PlayerID) string          { return w.player(p).cfg.Name }
func (w *World) IsAlive(p model.PlayerID) bool         { return w.player(p).alive }
func (w *World) IsHuman(p model.PlayerID) bool         { return w.player(p).cfg.Human }
func (w *World) IsMajor(p model.PlayerID) bool         { return !w.player(p).cfg.Minor }
func (w *World) Team(p model.PlayerID) int             { return w.player(p).cfg.Team }
func (w *World) Era(p model.PlayerID) model.Era        { return w.player(p).cfg.Era }
func (w *World) Score(p model.PlayerID) int            { return w.player(p).cfg.Score }
func (w *World) WarmongerScore(p model.PlayerID) int   { return w.player(p).cfg.Warmonger }
func (w *World) TreasuryGold(p model.PlayerID) int     { return w.player(p).gold }
func (w *World) GrossIncome(p model.PlayerID) int      { return w.player(p).cfg.Income }
func (w *World) EconomicStrength(p model.PlayerID) int { return w.player(p).cfg.Economy }
func (w *World) WondersBuilt(p model.PlayerID) int     { return w.player(p).cfg.Wonders }
func (w *World) WorldCongressActive() bool             { return w.congress }
func (w *World) RNG() model.RNG                        { return w.rng }

func (w *World) Personality(p model.PlayerID) model.Personality {
	return w.player(p).cfg.Personality
}

func (w *World) HasMet(a, b model.PlayerID) bool {
	if a == b {
		return true
	}
	return w.met[pairKey(a, b)]
}

func (w *World) IsAtWar(a, b model.PlayerID) bool {
	if a == b {
		return false
	}
	return w.war[pairKey(a, b)]
}

func (w *World) HasTech(p model.PlayerID, tech string) bool   { return w.player(p).techs[tech] }
func (w *World) HasCivic(p model.PlayerID, civic string) bool { return w.player(p).civics[civic] }

func (w *World) MilitaryStrength(p model.PlayerID) int {
	n := 0
	for _, u := range w.player(p).units {
		n += u.Strength
	}
	return n
}

func (w *World) MilitaryNear(p model.PlayerID, center model.Point, radius int) int {
	n := 0
	for _, u := range w.player(p).units {
		if model.Distance(u.At, center) <= radius {
			n += u.Strength
		}
	}
	return n
}

func (w *World) ValueLostTo(victim, attacker model.PlayerID) int {
	return w.valueLost[model.Pair{Owner: victim, Subject: attacker}]
}

func (w *World) Cities(p model.PlayerID) []worldview.CityInfo {
	var out []worldview.CityInfo
	for _, id := range w.cityOrder {
		if c := w.cities[id]; c.Owner == p {
			out = append(out, *c)
		}
	}
	return out
}

func (w *World) City(id model.CityID) (worldview.CityInfo, bool) {
	c, ok := w.cities[id]
	if !ok {
		return worldview.CityInfo{}, false
	}
	return *c, true
}

func (w *World) CityName(id model.CityID) string { return w.cityNames[id] }

// TileValue samples layered simplex noise into a 0..10 yield score.
func (w *World) TileValue(pt model.Point) int {
	if pt.X < 0 || pt.Y < 0 || pt.X >= w.width || pt.Y >= w.height {
		return 0
	}
	x, y := float64(pt.X), float64(pt.Y)
	total, amp, maxAmp, freq := 0.0, 1.0, 0.0, 0.08
	for i := 0; i < 3; i++ {
		total += w.noise.Eval2(x*freq, y*freq) * amp
		maxAmp += amp
		amp *= 0.5
		freq *= 2
	}
	return int(math.Round(total / maxAmp * 10))
}

func (w *World) ResourceInfo(r model.ResourceType) (model.ResourceInfo, bool) {
	info, ok := w.resources[r]
	return info, ok
}

func (w *World) ResourceTypes() []model.ResourceType {
	out := make([]model.ResourceType, 0, len(w.resources))
	for r := range w.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w *World) ResourceOwned(p model.PlayerID, r model.ResourceType) int {
	return w.player(p).cfg.Resources[r]
}

// Imported is how many copies of r p currently receives through deals.
func (w *World) Imported(p model.PlayerID, r model.ResourceType) int {
	n := 0
	for k, v := range w.flows {
		if k.to == p && k.res == r {
			n += v
		}
	}
	return n
}

// MinorInfluence grows with the major's economy and the number of its cities near the minor's capital.
func (w *World) MinorInfluence(major, minor model.PlayerID) int {
	if !w.IsMajor(major) || w.IsMajor(minor) {
		return 0
	}
	inf := w.EconomicStrength(major) / 10
	for _, mc := range w.Cities(minor) {
		if !mc.IsCapital {
			continue
		}
		for _, c := range w.Cities(major) {
			if model.Distance(c.Location, mc.Location) <= 8 {
				inf += 10
			}
		}
	}
	return inf
}

func (w *World) TransferGold(from, to model.PlayerID, amount int) {
	model.Require(amount >= 0, "sandbox.TransferGold", "negative amount %d", amount)
	w.player(from).gold -= amount
	w.player(to).gold += amount
}

func (w *World) SpendGold(p model.PlayerID, amount int) {
	model.Require(amount >= 0, "sandbox.SpendGold", "negative amount %d", amount)
	w.player(p).gold -= amount
}

func (w *World) AdjustResourceFlow(from, to model.PlayerID, r model.ResourceType, amount int) {
	k := flowKey{from: from, to: to, res: r}
	w.flows[k] += amount
	if w.flows[k] <= 0 {
		delete(w.flows, k)
	}
}

func (w *World) TransferCity(id model.CityID, to model.PlayerID) {
	c, ok := w.cities[id]
	model.Require(ok, "sandbox.TransferCity", "unknown city %d", id)
	c.Owner = to
	c.IsCapital = false
}

func (w *World) SetWar(a, b model.PlayerID, atWar bool) {
	model.RequirePair("sandbox.SetWar", a, b)
	k := pairKey(a, b)
	if atWar {
		w.war[k] = true
		return
	}
	delete(w.war, k)
	delete(w.valueLost, model.Pair{Owner: a, Subject: b})
	delete(w.valueLost, model.Pair{Owner: b, Subject: a})
}

// GrantResearch credits a with research points for a finished agreement with b.
func (w *World) GrantResearch(a, b model.PlayerID, amount int) {
	w.player(a).research += amount
}

func (w *World) Research(p model.PlayerID) int { return w.player(p).research }

// Meet records first contact; it reports whether the pair was new.
func (w *World) Meet(a, b model.PlayerID) bool {
	model.RequirePair("sandbox.Meet", a, b)
	k := pairKey(a, b)
	if w.met[k] {
		return false
	}
	w.met[k] = true
	return true
}

// Kill marks p as eliminated; its cities keep their owner id.
func (w *World) Kill(p model.PlayerID) {
	w.player(p).alive = false
	w.player(p).units = nil
}
