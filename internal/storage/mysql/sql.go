package mysql

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (username, email, password_hash, role)
VALUES (?, ?, ?, ?)
`

const getUserByUsernameSQL = `
SELECT id, username, email, password_hash, role
FROM users
WHERE username = ?
`

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels (name, title, city, address, distance_from_city_center, rating, number_of_ratings)
VALUES (?, ?, ?, ?, ?, 0.00, 0)
`

const hotelColumns = `id, name, title, city, address, distance_from_city_center, rating, number_of_ratings`

const getHotelSQL = `
SELECT ` + hotelColumns + `
FROM hotels
WHERE id = ?
`

// Locks the hotel row so concurrent rating folds serialize.
const lockHotelSQL = getHotelSQL + ` FOR UPDATE`

const updateHotelSQL = `
UPDATE hotels
SET name = ?, title = ?, city = ?, address = ?, distance_from_city_center = ?
WHERE id = ?
`

const updateHotelRatingSQL = `
UPDATE hotels
SET rating = ?, number_of_ratings = ?
WHERE id = ?
`

const countHotelsSQL = `SELECT COUNT(*) FROM hotels`

const listHotelsSQL = `
SELECT ` + hotelColumns + `
FROM hotels
ORDER BY id
LIMIT ? OFFSET ?
`

// Cascade pieces for DeleteHotel; executed inside one transaction.
const deleteHotelBookingsSQL = `
DELETE b FROM bookings b
JOIN rooms r ON r.id = b.room_id
WHERE r.hotel_id = ?
`

const deleteHotelRoomsSQL = `DELETE FROM rooms WHERE hotel_id = ?`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

// -----------------------------------------------------------------------------
// ROOMS
// -----------------------------------------------------------------------------

const hotelExistsSQL = `SELECT EXISTS(SELECT 1 FROM hotels WHERE id = ?)`

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, name, description, number, price_cents, max_guests)
VALUES (?, ?, ?, ?, ?, ?)
`

const roomColumns = `id, hotel_id, name, description, number, price_cents, max_guests`

const getRoomSQL = `
SELECT ` + roomColumns + `
FROM rooms
WHERE id = ?
`

const updateRoomSQL = `
UPDATE rooms
SET hotel_id = ?, name = ?, description = ?, number = ?, price_cents = ?, max_guests = ?
WHERE id = ?
`

const deleteRoomBookingsSQL = `DELETE FROM bookings WHERE room_id = ?`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const countRoomsSQL = `SELECT COUNT(*) FROM rooms`

const listRoomsSQL = `
SELECT ` + roomColumns + `
FROM rooms
ORDER BY id
LIMIT ? OFFSET ?
`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

// Serializes concurrent admission checks for the same room.
const lockRoomSQL = `SELECT id FROM rooms WHERE id = ? FOR UPDATE`

// Half-open overlap: an existing [in,out) intersects the candidate window
// iff in < candidateOut AND out > candidateIn.
const overlapExistsSQL = `
SELECT EXISTS(
  SELECT 1 FROM bookings
  WHERE room_id = ? AND check_in_date < ? AND check_out_date > ?
)
`

const insertBookingSQL = `
INSERT INTO bookings (room_id, user_id, check_in_date, check_out_date)
VALUES (?, ?, ?, ?)
`

const bookingColumns = `id, room_id, user_id, check_in_date, check_out_date`

const getBookingSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = ?
`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

const countUserBookingsSQL = `SELECT COUNT(*) FROM bookings WHERE user_id = ?`

const listUserBookingsSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE user_id = ?
ORDER BY check_in_date, id
LIMIT ? OFFSET ?
`

const countBookingsSQL = `SELECT COUNT(*) FROM bookings`

const listBookingsSQL = `
SELECT ` + bookingColumns + `
FROM bookings
ORDER BY check_in_date, id
LIMIT ? OFFSET ?
`

// -----------------------------------------------------------------------------
// STATISTICS
// -----------------------------------------------------------------------------

const insertStatSQL = `
INSERT INTO statistics_records (id, event_type, user_id, occurred_at, data)
VALUES (?, ?, ?, ?, ?)
`

const listStatsSQL = `
SELECT id, event_type, user_id, occurred_at, data
FROM statistics_records
ORDER BY occurred_at, id
`
