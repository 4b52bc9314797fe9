package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config    string `long:"config" description:"Path to config file (created with defaults if missing)" default:""`
	JSON      bool   `long:"json" description:"Output in JSON format"`
	Verbose   bool   `long:"verbose" description:"Enable debug logging"`
	Version   bool   `long:"version" description:"Show version and exit"`
	Primary   string `long:"primary" description:"Launch table CSV (overrides data.primary)"`
	Secondary string `long:"secondary" description:"Outcome table CSV (overrides data.secondary)"`
}

// ServeCommand starts the dashboard HTTP server.
type ServeCommand struct {
	Host     string `long:"host" description:"Override listen host"`
	Port     int    `long:"port" description:"Override listen port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows dataset and catalog statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// Selection holds the dashboard control values shared by query and render.
type Selection struct {
	Site string `long:"site" description:"Launch site, or ALL" default:"ALL"`
	Low  string `long:"low" description:"Lower payload bound in kg (default: dataset minimum)"`
	High string `long:"high" description:"Upper payload bound in kg (default: dataset maximum)"`
}

// QueryCommand evaluates one selection and prints the chart specifications.
type QueryCommand struct {
	Selection

	CSV      bool `long:"csv" description:"Print the matching launches as one-hot CSV"`
	Markdown bool `long:"markdown" description:"Print tables as Markdown"`

	globals *GlobalFlags
	version string
}

// RenderCommand writes a chart image for one selection.
type RenderCommand struct {
	Selection

	Chart  string `long:"chart" description:"Chart to render" choice:"proportion" choice:"scatter" default:"proportion"`
	Format string `long:"format" description:"Image format (default: from --out extension, else svg)" choice:"svg" choice:"png"`
	Out    string `long:"out" description:"Output file, or - for stdout" default:"-"`
	Width  int    `long:"width" description:"Image width in pixels (default: dashboard.chart_width)"`
	Height int    `long:"height" description:"Image height in pixels (default: dashboard.chart_height)"`

	globals *GlobalFlags
	version string
}
