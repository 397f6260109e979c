// Package kb holds the deterministic troubleshooting fallback used whenever
// the generative oracle is unavailable or unhelpful. Classification is a
// fixed-order keyword scan; the first matching category wins.
package kb

import "strings"

type Category string

const (
	CategoryComputer Category = "Laptop/Computer"
	CategoryNetwork  Category = "Network"
	CategoryEmail    Category = "Email"
	CategoryPrinter  Category = "Printer"
	CategorySoftware Category = "Software"
	CategoryAuth     Category = "Authentication"
	CategoryGeneric  Category = "Other"
)

type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
)

type entry struct {
	category Category
	keywords []string
	tier1    string
	tier2    string
}

// Order matters: a problem mentioning both "printer" and "network" classifies
// by whichever list is scanned first.
var entries = []entry{
	{
		category: CategoryComputer,
		keywords: []string{"pc", "computer", "desktop", "laptop", "hanging", "freeze", "slow", "crash"},
		tier1:    computerTier1,
		tier2:    computerTier2,
	},
	{
		category: CategoryNetwork,
		keywords: []string{"network", "internet", "wifi", "connection", "connect", "disconnected"},
		tier1:    networkTier1,
		tier2:    networkTier2,
	},
	{
		category: CategoryEmail,
		keywords: []string{"email", "outlook", "mail", "gmail", "message"},
		tier1:    emailTier1,
		tier2:    emailTier2,
	},
	{
		category: CategoryPrinter,
		keywords: []string{"print", "printer", "scanning", "scanner"},
		tier1:    printerTier1,
		tier2:    printerTier2,
	},
	{
		category: CategorySoftware,
		keywords: []string{"software", "application", "program", "app", "not working"},
		tier1:    softwareTier1,
		tier2:    softwareTier2,
	},
	{
		category: CategoryAuth,
		keywords: []string{"login", "password", "access", "account", "authentication"},
		tier1:    authTier1,
		tier2:    authTier2,
	},
}

var generic = entry{
	category: CategoryGeneric,
	tier1:    genericTier1,
	tier2:    genericTier2,
}

func classify(problem string) entry {
	p := strings.ToLower(problem)
	for _, e := range entries {
		for _, kw := range e.keywords {
			if strings.Contains(p, kw) {
				return e
			}
		}
	}
	return generic
}

// Classify maps free problem text to its category bucket.
func Classify(problem string) Category {
	return classify(problem).category
}

// Fallback returns the canned steps for the problem at the given tier.
// Fully deterministic: identical input always yields byte-identical output.
func Fallback(problem string, tier Tier) string {
	e := classify(problem)
	if tier == Tier2 {
		return e.tier2
	}
	return e.tier1
}

const computerTier1 = `1. Restart your computer completely
2. Close unnecessary applications and browser tabs
3. Check for available disk space (at least 10% should be free)
4. Run a quick virus scan
5. Update Windows and device drivers
6. Clear temporary files using Disk Cleanup
7. Check Task Manager (Ctrl+Shift+Esc) for programs using high resources

Common causes:
- Too many applications running simultaneously
- Outdated drivers or operating system
- Insufficient disk space
- Hardware issues

When to contact IT support:
- If the problem persists after trying these steps
- If you notice unusual behavior that might indicate malware
- If your computer repeatedly crashes with error messages`

const computerTier2 = `1. Check for Windows updates and install if available
2. Run System File Checker (SFC) by typing 'sfc /scannow' in Command Prompt
3. Check for hardware issues using built-in diagnostics
4. Try starting in Safe Mode to determine if it's a software conflict
5. Check Event Viewer for specific error codes
6. Perform a memory diagnostic test
7. Disconnect external devices and test again

This should help identify whether it's a hardware or software issue.`

const networkTier1 = `1. Check if other devices can connect to the network
2. Restart your router/modem (unplug for 30 seconds, then plug back in)
3. Make sure Wi-Fi is enabled on your device
4. Try connecting with an Ethernet cable if possible
5. Forget the network and reconnect with the password
6. Run Windows network troubleshooter

Common causes:
- Router/modem issues
- Wi-Fi signal interference
- Network configuration problems
- ISP service outage

When to contact IT support:
- If multiple devices cannot connect
- If the network is unusually slow across all devices
- If you get error messages when trying to connect`

const networkTier2 = `1. Reset TCP/IP stack by running 'netsh winsock reset' in Command Prompt
2. Release and renew your IP address using 'ipconfig /release' and 'ipconfig /renew'
3. Flush DNS cache with 'ipconfig /flushdns'
4. Change DNS settings to public DNS (like Google's 8.8.8.8 and 8.8.4.4)
5. Check for network adapter driver updates
6. Disable VPN or proxy if using one
7. Reset all network devices in the correct order (modem first, then router)

These steps address more advanced network configuration issues.`

const emailTier1 = `1. Check your internet connection
2. Restart your email application
3. Verify your account settings are correct
4. Clear your email application cache
5. Check if you can access email via web browser
6. Ensure you haven't exceeded storage quota

Common causes:
- Connection issues
- Account configuration problems
- Temporary server outages
- Full mailbox

When to contact IT support:
- If you receive specific error codes
- If you can't access your email after trying these steps
- If you suspect your account has been compromised`

const emailTier2 = `1. Run Outlook in Safe Mode (hold Ctrl while launching)
2. Create a new Outlook profile and test with that
3. Check if your mailbox needs to be repaired with the Inbox Repair Tool (scanpst.exe)
4. Disable add-ins that might be causing issues
5. Check your email account settings for maximum size limits
6. Check if your email client is in offline mode
7. Verify your anti-virus isn't blocking email connections

These solutions target Outlook-specific issues and account configuration problems.`

const printerTier1 = `1. Check if the printer is powered on and connected to the network
2. Verify that there is paper in the tray and no paper jams
3. Restart the printer completely
4. Remove and re-add the printer on your computer
5. Update printer drivers
6. Try printing a test page

Common causes:
- Connection issues
- Driver problems
- Hardware malfunctions
- Paper jams or low ink/toner

When to contact IT support:
- If the printer displays error codes
- If print quality is consistently poor
- If the printer is making unusual noises`

const printerTier2 = `1. Clear the print queue (stop and restart Print Spooler service)
2. Check printer IP address and make sure it hasn't changed
3. Set a static IP for the printer if possible
4. Update printer firmware (check manufacturer website)
5. Check if printer needs calibration
6. Try a different USB port or cable if directly connected
7. Print directly to the device using its web interface if available

These steps help with more complex printer connection and driver issues.`

const softwareTier1 = `1. Close and restart the application
2. Restart your computer
3. Check for application updates
4. Uninstall and reinstall the application
5. Clear the application cache if possible
6. Check if the application is compatible with your OS version

Common causes:
- Software bugs or glitches
- Corrupted installation
- Compatibility issues
- Insufficient system resources

When to contact IT support:
- If you receive specific error messages
- If reinstallation doesn't solve the problem
- If the application is mission-critical for your work`

const softwareTier2 = `1. Launch the application with admin privileges
2. Check for conflicts with anti-virus or firewall settings
3. Run the application in compatibility mode
4. Create a new user profile and test there
5. Check application logs for specific errors
6. Verify all dependencies are installed (like .NET Framework or Visual C++ Redistributables)
7. Try repairing the installation through Control Panel > Programs and Features

These steps help identify permission issues and software conflicts.`

const authTier1 = `1. Verify you're using the correct username and password
2. Check if Caps Lock is turned on
3. Clear your browser cache and cookies
4. Try accessing from a different browser
5. Reset your password if you have self-service options
6. Check if the service is down for maintenance

Common causes:
- Incorrect credentials
- Expired passwords
- Account lockouts due to multiple failed attempts
- Browser cache issues

When to contact IT support:
- If you're locked out of your account
- If you can't reset your password
- If you suspect unauthorized access`

const authTier2 = `1. Check if your account is locked due to too many failed attempts
2. Ensure your device time and date are accurate (important for authentication)
3. Check if you need to connect to VPN first before accessing certain systems
4. Try accessing from a different device to determine if it's device-specific
5. Check if multi-factor authentication needs to be reconfigured
6. Verify that your account hasn't expired or been disabled
7. Make sure you're using the correct domain if applicable (corporate vs. local account)

These steps address more complex authentication and account access issues.`

const genericTier1 = `1. Restart the device or application having issues
2. Check for any error messages and note them down
3. Verify your internet connection is working
4. Look for recent changes that might have caused the issue
5. Search for solutions in the company knowledge base
6. Try basic troubleshooting specific to the application

Common causes:
- Temporary system glitches
- Configuration issues
- Resource limitations
- Software bugs

When to contact IT support:
- If the issue persists after basic troubleshooting
- If you receive specific error codes
- If the issue is affecting your productivity
- If multiple users are experiencing the same problem`

const genericTier2 = `1. Take screenshots of any error messages for support reference
2. Check if colleagues are experiencing similar issues
3. Note when the issue started and any changes made around that time
4. Try using an alternative software/method temporarily if available
5. Check system requirements for the software you're using
6. Review recent updates that might have affected system behavior
7. Create a detailed document of when the issue occurs and steps to reproduce

Having this documentation will help support staff diagnose and fix the issue more quickly.`
