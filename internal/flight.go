package models

import "sort"

// SeatNumbers extracts the seat assignment of every passenger in order.
// Callers pass the result to the seat-map operations below, so those only
// ever deal with plain seat numbers.
func SeatNumbers(passengers []Passenger) []string {
	nums := make([]string, len(passengers))
	for i, p := range passengers {
		nums[i] = p.SeatNumber
	}
	return nums
}

// InvalidSeats returns the subset of seatNumbers that are not valid on this
// flight. With onlyAvailable false a seat is valid if it exists anywhere in
// the seat map; with onlyAvailable true it must also be unbooked. Pure query.
func (f *Flight) InvalidSeats(seatNumbers []string, onlyAvailable bool) []string {
	valid := make(map[string]bool, len(f.Seats))
	for _, s := range f.Seats {
		if onlyAvailable && s.IsBooked {
			continue
		}
		valid[s.SeatNumber] = true
	}
	var invalid []string
	for _, n := range seatNumbers {
		if !valid[n] {
			invalid = append(invalid, n)
		}
	}
	return invalid
}

// UpdateSeats is the sole seat-map mutation. Seats listed in both arguments
// cancel out, so a booking amendment that keeps a seat neither releases nor
// re-validates it. Validation runs before any seat flag changes; on error the
// seat map is untouched.
func (f *Flight) UpdateSeats(include, remove []string) error {
	toInclude := difference(include, remove)
	toRemove := difference(remove, include)

	invalid := f.InvalidSeats(append(append([]string{}, toInclude...), toRemove...), false)
	if len(invalid) > 0 {
		return &InvalidSeatsError{Seats: invalid}
	}
	booked := f.InvalidSeats(toInclude, true)
	if len(booked) > 0 {
		return &BookedSeatsError{Seats: booked}
	}

	index := make(map[string]int, len(f.Seats))
	for i, s := range f.Seats {
		index[s.SeatNumber] = i
	}
	for _, n := range toRemove {
		f.Seats[index[n]].IsBooked = false
	}
	for _, n := range toInclude {
		f.Seats[index[n]].IsBooked = true
	}
	return nil
}

// BookSeats reserves the given seats on the flight.
func (f *Flight) BookSeats(seatNumbers []string) error {
	return f.UpdateSeats(seatNumbers, nil)
}

// ClearSeats releases the given seats on the flight.
func (f *Flight) ClearSeats(seatNumbers []string) error {
	return f.UpdateSeats(nil, seatNumbers)
}

// PassengerPrice is the flight's base price plus the surcharges of the
// passenger's meal and baggage selections. Selections must match a
// configured option by name; there is no fallback.
func (f *Flight) PassengerPrice(p Passenger) (float64, error) {
	meal, ok := findOption(f.MealOptions, p.Meal)
	if !ok {
		return 0, &OptionNotFoundError{Kind: "meal", Name: p.Meal}
	}
	baggage, ok := findOption(f.BaggageOptions, p.ExtraBaggage)
	if !ok {
		return 0, &OptionNotFoundError{Kind: "baggage", Name: p.ExtraBaggage}
	}
	return f.Price + meal.Price + baggage.Price, nil
}

// BookingTotal sums PassengerPrice over the passenger list.
func (f *Flight) BookingTotal(passengers []Passenger) (float64, error) {
	var total float64
	for _, p := range passengers {
		price, err := f.PassengerPrice(p)
		if err != nil {
			return 0, err
		}
		total += price
	}
	return total, nil
}

// Cancel transitions the flight into its terminal state. Cascading
// cancellation of dependent bookings is the caller's concern.
func (f *Flight) Cancel() error {
	if f.Status == FlightCancelled {
		return ErrFlightCancelled
	}
	f.Status = FlightCancelled
	return nil
}

// SeatMap builds a fresh all-unbooked seat map for a flight operated by this
// aircraft.
func (a *Aircraft) SeatMap() []Seat {
	seats := make([]Seat, len(a.Seats))
	for i, n := range a.Seats {
		seats[i] = Seat{SeatNumber: n}
	}
	return seats
}

// SameSeats reports whether two aircraft have identical seat layouts. A
// flight may only be reassigned to an aircraft with the same seats.
func (a *Aircraft) SameSeats(other *Aircraft) bool {
	if len(a.Seats) != len(other.Seats) {
		return false
	}
	mine := append([]string{}, a.Seats...)
	theirs := append([]string{}, other.Seats...)
	sort.Strings(mine)
	sort.Strings(theirs)
	for i := range mine {
		if mine[i] != theirs[i] {
			return false
		}
	}
	return true
}

func findOption(options []FareOption, name string) (FareOption, bool) {
	for _, o := range options {
		if o.Name == name {
			return o, true
		}
	}
	return FareOption{}, false
}

func difference(a, b []string) []string {
	exclude := make(map[string]bool, len(b))
	for _, n := range b {
		exclude[n] = true
	}
	var out []string
	for _, n := range a {
		if !exclude[n] {
			out = append(out, n)
		}
	}
	return out
}
