package process

import (
	"os"
	"regexp"
	"slices"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	ps "github.com/shirou/gopsutil/v4/process"
)

func children(pid int) []int {
	p, err := ps.NewProcess(int32(pid))
	if err != nil {
		return nil
	}
	kids, err := p.Children()
	if err != nil {
		zlog.Debug().Msgf("failed to list children: pid=%d err=%v", pid, err)
		return nil
	}
	out := make([]int, 0, len(kids))
	for _, k := range kids {
		out = append(out, int(k.Pid))
	}
	return out
}

// isZombie reports a terminated but unreaped process. Hosts that do not
// expose process status report false, leaving the existence check to decide.
func isZombie(pid int) bool {
	p, err := ps.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	status, err := p.Status()
	if err != nil {
		return false
	}
	return slices.Contains(status, ps.Zombie)
}

func sweep(re *regexp.Regexp) (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, errors.Wrap(err, "failed to list processes")
	}

	self := int32(os.Getpid())
	n := 0
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		line, err := p.Cmdline()
		if err != nil || line == "" || !re.MatchString(line) {
			continue
		}
		if err := Terminate(int(p.Pid)); err != nil {
			zlog.Debug().Msgf("sweep: failed to terminate pid=%d: %v", p.Pid, err)
			continue
		}
		zlog.Debug().Msgf("sweep: terminated pid=%d cmdline=%q", p.Pid, line)
		n++
	}
	return n, nil
}
