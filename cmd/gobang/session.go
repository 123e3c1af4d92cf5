package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gobangfree/gobang-server-go/internal/game"
	"github.com/gobangfree/gobang-server-go/internal/game/board"
	"github.com/gobangfree/gobang-server-go/internal/game/events"
	"github.com/gobangfree/gobang-server-go/internal/game/mana"
	"github.com/gobangfree/gobang-server-go/internal/game/rules"
	"github.com/gobangfree/gobang-server-go/internal/game/skills"
	"github.com/gobangfree/gobang-server-go/internal/game/watchers"
)

var errQuit = errors.New("quit")

type command struct {
	usage string
	args  int
	run   func(s *session, args []string) (bool, error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"move":      {"move <row> <col>", 2, (*session).move},
		"skill":     {"skill <black|white> <skill-id>", 2, (*session).skill},
		"target":    {"target <row> <col>", 2, (*session).target},
		"cancel":    {"cancel", 0, func(s *session, _ []string) (bool, error) { s.engine.CancelSkillSelection(); return true, nil }},
		"close":     {"close", 0, func(s *session, _ []string) (bool, error) { s.engine.CloseCounterWindow(); return true, nil }},
		"undo":      {"undo", 0, func(s *session, _ []string) (bool, error) { s.engine.Undo(); return true, nil }},
		"restart":   {"restart", 0, func(s *session, _ []string) (bool, error) { s.engine.Restart(); return true, nil }},
		"swap":      {"swap", 0, func(s *session, _ []string) (bool, error) { s.engine.SwapPlayers(); return true, nil }},
		"decline":   {"decline", 0, func(s *session, _ []string) (bool, error) { s.engine.DeclineSwap(); return true, nil }},
		"cheat":     {"cheat", 0, func(s *session, _ []string) (bool, error) { s.engine.AddManaCheat(); return true, nil }},
		"mode":      {"mode <basic|professional>", 1, (*session).mode},
		"choose":    {"choose <index>", 1, (*session).choose},
		"policy":    {"policy <total_moves|per_player>", 1, (*session).policy},
		"extra":     {"extra <on|off>", 1, (*session).extra},
		"forbidden": {"forbidden <row> <col>", 2, (*session).forbidden},
		"skills":    {"skills", 0, (*session).listSkills},
		"board":     {"board", 0, (*session).printBoard},
		"state":     {"state", 0, (*session).printState},
		"stats":     {"stats", 0, (*session).printStats},
		"help":      {"help", 0, (*session).help},
		"quit":      {"quit", 0, func(*session, []string) (bool, error) { return false, errQuit }},
	}
}

// session drives one engine from line commands.
type session struct {
	engine *game.Engine
	logger *zap.Logger

	skillsCast *watchers.SkillsCastWatcher
	mana       *watchers.ManaWatcher
	stones     *watchers.StonesPlacedWatcher
	stats      *watchers.Set

	mu  sync.Mutex
	out io.Writer
}

func newSession(engine *game.Engine, out io.Writer, logger *zap.Logger) *session {
	s := &session{
		engine:     engine,
		logger:     logger,
		out:        out,
		skillsCast: watchers.NewSkillsCastWatcher(),
		mana:       watchers.NewManaWatcher(),
		stones:     watchers.NewStonesPlacedWatcher(),
	}
	s.stats = watchers.NewSet(s.skillsCast, s.mana, s.stones)
	s.stats.Attach(engine)
	return s
}

// watch prints game events as they are published, including timer-driven ones.
func (s *session) watch() int {
	return s.engine.Subscribe(func(evt events.Event) {
		switch evt.Type {
		case events.EventGameOver, events.EventCounterWindowOpened, events.EventCounterWindowClosed,
			events.EventReverseUnlocked, events.EventExtraTurnOpened, events.EventPhaseChanged:
		default:
			return
		}
		line := fmt.Sprintf("* %s player=%s", evt.Type, evt.Player)
		if evt.Data != "" {
			line += " " + evt.Data
		}
		s.println(line)
	})
}

func (s *session) println(a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, a...)
}

// lineReader yields one command line per call and io.EOF at the end.
// *readline.Instance satisfies it.
type lineReader interface {
	Readline() (string, error)
}

// scannerLines reads commands from a non-interactive stream.
type scannerLines struct {
	scanner *bufio.Scanner
}

func newScannerLines(in io.Reader) scannerLines {
	return scannerLines{scanner: bufio.NewScanner(in)}
}

func (l scannerLines) Readline() (string, error) {
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// run executes commands until EOF, quit, or an interrupt on an empty line.
func (s *session) run(lines lineReader) error {
	for {
		line, err := lines.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := s.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			s.println("error:", err)
		}
	}
}

// exec runs one command line. Blank lines and # comments are ignored.
func (s *session) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", line, err)
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	if len(args) != cmd.args {
		return fmt.Errorf("usage: %s", cmd.usage)
	}

	ok, err = cmd.run(s, args)
	if err != nil {
		return err
	}
	s.logger.Debug("command", zap.String("name", name), zap.Strings("args", args), zap.Bool("ok", ok))
	if ok {
		s.println("ok")
	} else {
		s.println("rejected")
	}
	return nil
}

// completer offers command names, and skill ids after "skill <player>".
func completer() *readline.PrefixCompleter {
	skillItems := lo.Map(skills.Catalog(), func(sk skills.Skill, _ int) readline.PrefixCompleterInterface {
		return readline.PcItem(string(sk.ID))
	})
	names := lo.Keys(commands)
	sort.Strings(names)

	items := make([]readline.PrefixCompleterInterface, 0, len(names))
	for _, name := range names {
		switch name {
		case "skill":
			items = append(items, readline.PcItem(name,
				readline.PcItem("black", skillItems...),
				readline.PcItem("white", skillItems...),
			))
		case "mode":
			items = append(items, readline.PcItem(name,
				readline.PcItem(rules.ModeBasic.String()),
				readline.PcItem(rules.ModeProfessional.String()),
			))
		case "policy":
			items = append(items, readline.PcItem(name,
				readline.PcItem(mana.PolicyTotalMoves.String()),
				readline.PcItem(mana.PolicyPerPlayer.String()),
			))
		case "extra":
			items = append(items, readline.PcItem(name, readline.PcItem("on"), readline.PcItem("off")))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func parsePosition(args []string) (board.Position, error) {
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return board.Position{}, fmt.Errorf("invalid row %q: %w", args[0], err)
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return board.Position{}, fmt.Errorf("invalid column %q: %w", args[1], err)
	}
	return board.Pos(row, col), nil
}

func (s *session) move(args []string) (bool, error) {
	p, err := parsePosition(args)
	if err != nil {
		return false, err
	}
	return s.engine.MakeMove(p.Row, p.Col), nil
}

func (s *session) skill(args []string) (bool, error) {
	player, err := board.ParseCell(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid player: %w", err)
	}
	id, err := skills.ParseID(args[1])
	if err != nil {
		return false, err
	}
	return s.engine.UseSkill(player, id), nil
}

func (s *session) target(args []string) (bool, error) {
	p, err := parsePosition(args)
	if err != nil {
		return false, err
	}
	return s.engine.ExecuteSkillEffect(p.Row, p.Col), nil
}

func (s *session) mode(args []string) (bool, error) {
	mode, err := rules.ParseMode(args[0])
	if err != nil {
		return false, err
	}
	s.engine.SetMode(mode)
	return true, nil
}

func (s *session) choose(args []string) (bool, error) {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid index %q: %w", args[0], err)
	}
	before := s.engine.Snapshot().ProfessionalPhase
	s.engine.ChooseFiveOffer(index)
	return s.engine.Snapshot().ProfessionalPhase != before, nil
}

func (s *session) policy(args []string) (bool, error) {
	policy, err := mana.ParsePolicy(args[0])
	if err != nil {
		return false, err
	}
	s.engine.SetManaPolicy(policy)
	return true, nil
}

func (s *session) extra(args []string) (bool, error) {
	switch strings.ToLower(args[0]) {
	case "on":
		s.engine.SetExtraTurnArbitration(true)
	case "off":
		s.engine.SetExtraTurnArbitration(false)
	default:
		return false, fmt.Errorf("usage: %s", commands["extra"].usage)
	}
	return true, nil
}

func (s *session) forbidden(args []string) (bool, error) {
	p, err := parsePosition(args)
	if err != nil {
		return false, err
	}
	s.println(fmt.Sprintf("forbidden=%t", s.engine.IsForbiddenMove(p.Row, p.Col)))
	return true, nil
}

func (s *session) listSkills([]string) (bool, error) {
	for _, sk := range skills.Catalog() {
		s.println(fmt.Sprintf("%-13s %2d  %s", sk.ID, sk.ManaCost, sk.Description))
	}
	return true, nil
}

func (s *session) printBoard([]string) (bool, error) {
	st := s.engine.Snapshot()
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < board.Size; c++ {
		fmt.Fprintf(&sb, "%x", c)
	}
	sb.WriteByte('\n')
	for r, row := range strings.Split(strings.TrimSuffix(st.Board.String(), "\n"), "\n") {
		fmt.Fprintf(&sb, "%2d %s\n", r, row)
	}
	fmt.Fprintf(&sb, "to move: %s  mana: black %d/%d white %d/%d",
		st.CurrentPlayer,
		st.BlackMana.Current, st.BlackMana.Max,
		st.WhiteMana.Current, st.WhiteMana.Max,
	)
	if st.Mode == rules.ModeProfessional {
		fmt.Fprintf(&sb, "  phase: %s", st.ProfessionalPhase)
	}
	if st.IsGameOver {
		fmt.Fprintf(&sb, "\ngame over, winner: %s", st.Winner)
	}
	s.println(sb.String())
	return true, nil
}

func (s *session) printState([]string) (bool, error) {
	st := s.engine.Snapshot()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode state: %w", err)
	}
	s.println(string(data))
	s.println("checksum:", st.Checksum())
	return true, nil
}

func (s *session) printStats([]string) (bool, error) {
	for _, player := range []board.Cell{board.Black, board.White} {
		s.println(fmt.Sprintf("%-5s stones=%d mana gained=%d spent=%d skills=%v",
			player,
			s.stones.Placed(player),
			s.mana.Gained(player),
			s.mana.Spent(player),
			s.skillsCast.Skills(player),
		))
	}
	return true, nil
}

func (s *session) help([]string) (bool, error) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.println(" ", commands[name].usage)
	}
	return true, nil
}
