package forecast

import "fmt"

// HourlyScore is an (hour, score) pair for the best-window search.
type HourlyScore struct {
	Hour  int
	Score float64
}

// FindBestWindow searches the inclusive hour range [startHour, endHour] for
// the consecutive-hour pair with the highest mean score and returns it as a
// "HH:00 - HH:00" span covering two hours. Ties go to the earliest window.
// ok is false when fewer than two qualifying hours exist or no consecutive
// pair is found.
func FindBestWindow(scores []HourlyScore, startHour, endHour int) (window string, ok bool) {
	relevant := make([]HourlyScore, 0, len(scores))
	for _, s := range scores {
		if s.Hour >= startHour && s.Hour <= endHour {
			relevant = append(relevant, s)
		}
	}
	if len(relevant) < 2 {
		return "", false
	}

	bestScore := -1.0
	bestStart := -1
	for i := 0; i < len(relevant)-1; i++ {
		if relevant[i+1].Hour != relevant[i].Hour+1 {
			continue
		}
		avg := (relevant[i].Score + relevant[i+1].Score) / 2
		if avg > bestScore {
			bestScore = avg
			bestStart = relevant[i].Hour
		}
	}
	if bestStart == -1 {
		return "", false
	}
	return fmt.Sprintf("%02d:00 - %02d:00", bestStart, bestStart+2), true
}
