package buildinfo

const Graffiti = "  ___  ____  ____  ___ _____ ___  ____  _____ \n / _ \\|  _ \\|  _ \\/ __|_   _/ _ \\|  _ \\| ____|\n| |_| | |_) | | | \\__ \\ | || |_| | |_) |  _|  \n \\___/|_| \\_\\|____/|___/ |_| \\___/|_| \\_\\_____|\n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "ordstore"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
