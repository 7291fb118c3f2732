package geo

// Direction is the side of a shape a connection point sits on, and so the direction a
// connector leaves or enters the shape in.
type Direction string

const (
	North Direction = "N"
	East  Direction = "E"
	South Direction = "S"
	West  Direction = "W"
)

var Directions = []Direction{North, East, South, West}

func (d Direction) Valid() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

func (d Direction) IsHorizontal() bool {
	return d == East || d == West
}

func (d Direction) IsVertical() bool {
	return d == North || d == South
}

func (d Direction) GetOpposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return d
	}
}

// Unit is the unit vector pointing away from the shape. Y grows downward.
func (d Direction) Unit() Vector {
	switch d {
	case North:
		return NewVector(0, -1)
	case South:
		return NewVector(0, 1)
	case East:
		return NewVector(1, 0)
	case West:
		return NewVector(-1, 0)
	default:
		return NewVector(0, 0)
	}
}

func (d Direction) ToString() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return ""
	}
}
