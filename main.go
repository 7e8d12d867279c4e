package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/borgmon/wakewalk/pkg/alarm"
	"github.com/borgmon/wakewalk/pkg/bridge"
	"github.com/borgmon/wakewalk/pkg/models"
	"github.com/borgmon/wakewalk/pkg/notify"
	"github.com/borgmon/wakewalk/pkg/pedometer"
	"github.com/borgmon/wakewalk/pkg/session"
	"github.com/borgmon/wakewalk/pkg/sounds"
	"github.com/borgmon/wakewalk/pkg/store"
	"github.com/borgmon/wakewalk/pkg/streak"
	"github.com/borgmon/wakewalk/pkg/timeutil"
	"github.com/borgmon/wakewalk/pkg/walk"
)

type WakeWalk struct {
	config     *Config
	settings   *store.SettingsStore
	outcomes   *store.OutcomeStore
	gateway    *notify.LocalGateway
	bridge     *bridge.LocalBridge
	pedometer  pedometer.Pedometer
	manual     *pedometer.Manual
	scheduler  *alarm.Scheduler
	tracker    *walk.Tracker
	controller *session.Controller
}

func main() {
	configPath := os.Getenv("WAKEWALK_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	ww := &WakeWalk{config: loadConfig(configPath)}
	if err := ww.initialize(); err != nil {
		log.Fatal(err)
	}

	ww.run()
}

func (ww *WakeWalk) initialize() error {
	if err := setupAutostart(ww.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	kv, err := store.NewFileKV(ww.config.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", ww.config.DataDir, err)
	}

	ww.settings = store.NewSettingsStore(kv)
	ww.outcomes = store.NewOutcomeStore(kv)
	ww.gateway = notify.NewLocalGateway()
	ww.bridge = bridge.NewLocalBridge(ww.config.SoundDir)

	if ww.config.Pedometer == "none" {
		ww.pedometer = pedometer.Unavailable{}
	} else {
		ww.manual = pedometer.NewManual()
		ww.pedometer = ww.manual
	}

	ww.scheduler = alarm.NewScheduler(ww.gateway, ww.bridge, ww.settings)
	ww.tracker = walk.NewTracker(ww.pedometer, ww.outcomes)
	ww.controller = session.NewController(ww.scheduler, ww.tracker, ww.outcomes)
	ww.controller.SetGoal(ww.config.GoalSteps, ww.config.WalkGoalMinutes)

	ww.scheduler.Start()
	return nil
}

func (ww *WakeWalk) run() {
	defer ww.scheduler.Close()

	fmt.Println("wakewalk: type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		ww.dispatch(fields[0], fields[1:])
	}
}

func (ww *WakeWalk) dispatch(cmd string, args []string) {
	switch cmd {
	case "help":
		printHelp()
	case "arm":
		ww.cmdArm(args)
	case "stop":
		ww.controller.Stop()
		fmt.Println("Stopped")
	case "snooze":
		ww.cmdSnooze()
	case "status":
		ww.cmdStatus()
	case "walk":
		ww.cmdWalk(args)
	case "tap":
		ww.cmdTap()
	case "sounds":
		ww.cmdSounds()
	case "stats":
		ww.cmdStats()
	case "export":
		ww.cmdExport(args)
	case "set":
		ww.cmdSet(args)
	case "dismiss":
		ww.controller.Dismiss()
	default:
		fmt.Printf("Unknown command %q; type 'help'\n", cmd)
	}
}

func printHelp() {
	fmt.Println(`Commands:
  arm HH:MM [nap]   schedule an alarm (or nap) for the next HH:MM
  stop              stop or cancel the alarm
  snooze            snooze the ringing alarm
  status            show alarm and walk session state
  walk N            record N steps taken
  tap               press Stop on the alarm notification
  sounds            list the built-in alarm sounds
  stats             show streaks and the last 12 months
  export [FILE]     write commit days as an iCalendar file
  set KEY VALUE     change a setting (sound, ring, vibration, audio,
                    snooze, snooze_minutes, snooze_repeats)
  dismiss           clear a finished walk session
  quit              exit`)
}

func (ww *WakeWalk) cmdArm(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: arm HH:MM [nap]")
		return
	}
	hour, minute, err := parseClock(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	mode := models.ModeAlarm
	if len(args) > 1 && args[1] == "nap" {
		mode = models.ModeNap
	}

	target, err := ww.controller.Arm(hour, minute, mode)
	if err != nil {
		fmt.Printf("Could not arm: %v\n", err)
		return
	}
	fmt.Printf("Armed %s for %s\n", mode, target.Format("Mon 15:04"))
}

func (ww *WakeWalk) cmdSnooze() {
	next, err := ww.controller.Snooze()
	if err != nil {
		fmt.Printf("Snooze failed: %v\n", err)
		return
	}
	if next == nil {
		fmt.Println("No snoozes left")
		return
	}
	fmt.Printf("Snoozed until %s (%d left)\n", timeutil.FormatClock(*next), ww.scheduler.RemainingSnoozes())
}

func (ww *WakeWalk) cmdStatus() {
	status := ww.scheduler.Status()
	fmt.Printf("Alarm: %s", status)
	if at := ww.scheduler.ScheduledAt(); at != nil {
		fmt.Printf(" for %s", at.Format("Mon 15:04"))
	}
	fmt.Println()

	if s := ww.controller.Session(); s != nil {
		switch s.Status {
		case walk.StatusTracking:
			fmt.Printf("Walk: %d/%d steps, %s left\n", s.Steps, s.GoalSteps, s.Remaining.Round(time.Second))
		default:
			fmt.Printf("Walk: %s with %d/%d steps\n", s.Status, s.Steps, s.GoalSteps)
		}
	}
}

func (ww *WakeWalk) cmdWalk(args []string) {
	if ww.manual == nil {
		fmt.Println("No step sensor configured on this host")
		return
	}
	if len(args) < 1 {
		fmt.Println("Usage: walk N")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		fmt.Println("Step count must be a positive number")
		return
	}
	ww.manual.Add(n)
	fmt.Printf("Recorded %d steps\n", n)
}

// cmdTap is the REPL's stand-in for pressing the Stop button on the fired
// alarm notification
func (ww *WakeWalk) cmdTap() {
	ww.gateway.RespondAction(notify.StopActionID, notify.Notification{
		Content: notify.Content{Category: notify.AlarmCategory},
	})
	fmt.Println("Notification action sent")
}

func (ww *WakeWalk) cmdSounds() {
	current := ww.settings.AlarmSettings().SoundID
	for _, g := range sounds.Groups() {
		fmt.Println(g.Title)
		for _, s := range g.Sounds {
			marker := " "
			if s.ID == current {
				marker = "*"
			}
			fmt.Printf("  %s %-22s %s\n", marker, s.ID, sounds.DisplayName(s.ID))
		}
	}
}

func (ww *WakeWalk) cmdStats() {
	outcomes := ww.outcomes.GetAll()
	now := time.Now()

	s := streak.ComputeStreaks(outcomes, now)
	fmt.Printf("Current streak: %d", s.Current.Length)
	if s.Current.Length > 0 {
		fmt.Printf(" (since %s)", timeutil.DateKey(s.Current.Start))
	}
	fmt.Println()
	fmt.Printf("Longest streak: %d", s.Longest.Length)
	if s.Longest.Length > 0 {
		fmt.Printf(" (%s to %s)", timeutil.DateKey(s.Longest.Start), timeutil.DateKey(s.Longest.End))
	}
	fmt.Println()

	for _, m := range streak.BuildCalendar(outcomes, now) {
		fmt.Printf("%s %d  %s\n", m.Month, m.Year, renderMonth(m))
	}
}

// renderMonth flattens a month to one glyph per day: # commit, x miss,
// . no record, space future
func renderMonth(m streak.Month) string {
	var b strings.Builder
	for _, week := range m.Weeks {
		for _, day := range week {
			if day == nil {
				continue
			}
			switch day.Status {
			case streak.DaySuccess:
				b.WriteByte('#')
			case streak.DayFail:
				b.WriteByte('x')
			case streak.DayFuture:
				b.WriteByte(' ')
			default:
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

func (ww *WakeWalk) cmdExport(args []string) {
	path := "wakewalk.ics"
	if len(args) > 0 {
		path = args[0]
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("Could not create %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if err := streak.ExportICS(f, ww.outcomes.GetAll(), time.Now()); err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	fmt.Printf("Wrote %s\n", path)
}

func (ww *WakeWalk) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: set KEY VALUE")
		return
	}
	key, value := args[0], args[1]

	ok := true
	ww.settings.Update(func(s *models.AlarmSettings) {
		switch key {
		case "sound":
			if sounds.ValidID(value) {
				s.SoundID = value
			} else {
				fmt.Printf("Unknown sound %q\n", value)
				ok = false
			}
		case "ring":
			if n, err := strconv.Atoi(value); err == nil && models.ValidRingDuration(n) {
				s.RingDurationMinutes = n
			} else {
				fmt.Printf("Ring duration must be one of %v\n", models.RingDurationOptions)
				ok = false
			}
		case "vibration":
			s.VibrationEnabled = value == "on"
		case "audio":
			s.SoundEnabled = value == "on"
		case "snooze":
			s.SnoozeEnabled = value == "on"
		case "snooze_minutes":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				s.SnoozeDurationMinutes = n
			} else {
				fmt.Println("Snooze duration must be a positive number")
				ok = false
			}
		case "snooze_repeats":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 {
				s.SnoozeRepeatCount = n
			} else {
				fmt.Println("Snooze repeats must be zero or more")
				ok = false
			}
		default:
			fmt.Printf("Unknown setting %q\n", key)
			ok = false
		}
	})

	if ok {
		// A live armed alarm picks up sound/vibration/duration changes
		ww.scheduler.SettingsChanged()
		fmt.Printf("Set %s to %s\n", key, value)
	}
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour must be 0-23, got %q", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute must be 0-59, got %q", parts[1])
	}
	return hour, minute, nil
}
